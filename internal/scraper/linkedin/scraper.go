package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-job-trend-analyzer/internal/browser"
	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/filter"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/models"
	"go-job-trend-analyzer/internal/scraper"
	"go-job-trend-analyzer/utils"

	"github.com/PuerkitoBio/goquery"
)

// resultsPerPage is LinkedIn's page stride for the start parameter.
const resultsPerPage = 25

const (
	cardSelector        = "div.base-card"
	titleSelector       = "h3.base-search-card__title"
	companySelector     = "h4.base-search-card__subtitle"
	locationSelector    = "span.job-search-card__location"
	linkSelector        = "a.base-card__full-link"
	dateSelector        = "time.job-search-card__listdate"
	newDateSelector     = "time.job-search-card__listdate--new"
	descriptionSelector = "div.description__text"
)

// Session is the subset of a browser page the scraper drives.
type Session interface {
	Navigate(ctx context.Context, url string) error
	ScreenHeight() (int, error)
	ScrollTo(y int) error
	ScrollHeight() (int, error)
	Content() (string, error)
	ClickLink(href string) error
	Screenshot(path string) error
	Close() error
}

// Opener starts a new browser session.
type Opener func(ctx context.Context) (Session, error)

type LinkedInScraper struct {
	baseURL     string
	open        Opener
	log         logger.Logger
	sleep       func(time.Duration)
	settleWait  time.Duration
	scrollPause time.Duration
	revealWait  time.Duration
	screenshots *utils.ScreenShotDebugger
}

type Option func(*LinkedInScraper)

// WithOpener replaces the playwright-backed session, mainly for tests.
func WithOpener(open Opener) Option {
	return func(s *LinkedInScraper) { s.open = open }
}

// WithSleep replaces time.Sleep for the fixed waits.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *LinkedInScraper) { s.sleep = fn }
}

// WithScreenshots captures the page whenever a description reveal fails.
func WithScreenshots(d *utils.ScreenShotDebugger) Option {
	return func(s *LinkedInScraper) { s.screenshots = d }
}

func NewLinkedInScraper(cfg *config.Config, log logger.Logger, opts ...Option) *LinkedInScraper {
	browserOpts := browser.Options{
		Headless:  cfg.LinkedIn.IsHeadless(),
		UserAgent: cfg.HTTP.UserAgent,
	}

	s := &LinkedInScraper{
		baseURL: strings.TrimRight(cfg.LinkedIn.BaseURL, "/"),
		open: func(ctx context.Context) (Session, error) {
			session, err := browser.Open(ctx, browserOpts)
			if err != nil {
				return nil, err
			}
			return session, nil
		},
		log:         log.With(logger.String("source", scraper.SourceLinkedIn)),
		sleep:       time.Sleep,
		settleWait:  cfg.LinkedIn.SettleWait,
		scrollPause: cfg.LinkedIn.ScrollPause,
		revealWait:  cfg.LinkedIn.RevealWait,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LinkedInScraper) Name() string {
	return scraper.SourceLinkedIn
}

// Scrape returns whatever was collected before a navigation or session error,
// together with that error. Per-card description failures are not errors.
func (s *LinkedInScraper) Scrape(ctx context.Context, q scraper.Query) ([]models.JobListing, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	session, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.log.Warn("Failed to close browser session", logger.Error(cerr))
		}
	}()

	var jobs []models.JobListing
	for page := 0; page < q.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return jobs, err
		}

		pageJobs, err := s.scrapePage(ctx, session, q, page)
		jobs = append(jobs, pageJobs...)
		if err != nil {
			return jobs, fmt.Errorf("linkedin page %d: %w", page+1, err)
		}
	}

	s.log.Info("LinkedIn scrape finished", logger.Int("listings", len(jobs)))
	return jobs, nil
}

func (s *LinkedInScraper) searchURL(q scraper.Query, page int) string {
	params := url.Values{}
	params.Set("keywords", q.Term)
	params.Set("location", q.Location)
	params.Set("start", strconv.Itoa(page*resultsPerPage))
	return s.baseURL + "/jobs/search/?" + params.Encode()
}

func (s *LinkedInScraper) scrapePage(ctx context.Context, session Session, q scraper.Query, page int) ([]models.JobListing, error) {
	target := s.searchURL(q, page)
	s.log.Debug("Visiting job search", logger.String("url", target))

	if err := session.Navigate(ctx, target); err != nil {
		return nil, err
	}
	s.sleep(s.settleWait)

	if err := s.scrollToEnd(session); err != nil {
		return nil, fmt.Errorf("scroll: %w", err)
	}

	html, err := session.Content()
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	cards := doc.Find(cardSelector)
	s.log.Debug("Found job cards", logger.Int("page", page+1), logger.Int("cards", cards.Length()))

	jobs := make([]models.JobListing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		jobs = append(jobs, s.parseCard(session, card))
	})
	return jobs, nil
}

// scrollToEnd scrolls one screen at a time until the next step would pass the
// bottom of the document.
func (s *LinkedInScraper) scrollToEnd(session Session) error {
	screenHeight, err := session.ScreenHeight()
	if err != nil {
		return err
	}
	if screenHeight <= 0 {
		return fmt.Errorf("invalid screen height %d", screenHeight)
	}

	for i := 1; ; {
		if err := session.ScrollTo(screenHeight * i); err != nil {
			return err
		}
		i++
		s.sleep(s.scrollPause)

		scrollHeight, err := session.ScrollHeight()
		if err != nil {
			return err
		}
		if screenHeight*i > scrollHeight {
			return nil
		}
	}
}

func (s *LinkedInScraper) parseCard(session Session, card *goquery.Selection) models.JobListing {
	job := models.JobListing{
		Title:      textOrMissing(card, titleSelector),
		Company:    textOrMissing(card, companySelector),
		Location:   textOrMissing(card, locationSelector),
		Salary:     models.MissingValue,
		URL:        models.MissingValue,
		DatePosted: textOrMissing(card, dateSelector),
		Source:     scraper.SourceLinkedIn,
	}
	if job.DatePosted == models.MissingValue {
		job.DatePosted = textOrMissing(card, newDateSelector)
	}

	href, hasLink := card.Find(linkSelector).First().Attr("href")
	if hasLink {
		job.URL = href
		job.Description = s.revealDescription(session, href)
	} else {
		job.Description = models.MissingValue
	}

	job.Skills = filter.JoinSkills(filter.ExtractSkills(job.Description))
	return job
}

// revealDescription clicks the card link and reads the description pane. Any
// failure yields N/A; there are no retries.
func (s *LinkedInScraper) revealDescription(session Session, href string) string {
	description, err := s.tryReveal(session, href)
	if err != nil {
		s.log.Warn("Error fetching LinkedIn job description", logger.String("url", href), logger.Error(err))
		if s.screenshots != nil {
			_, _ = s.screenshots.CaptureAndLog(session, "linkedin-reveal", "LinkedIn description reveal failed")
		}
		return models.MissingValue
	}
	return description
}

func (s *LinkedInScraper) tryReveal(session Session, href string) (string, error) {
	if err := session.ClickLink(href); err != nil {
		return "", fmt.Errorf("click: %w", err)
	}
	s.sleep(s.revealWait)

	html, err := session.Content()
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	return textOrMissing(doc.Selection, descriptionSelector), nil
}

func textOrMissing(sel *goquery.Selection, selector string) string {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return models.MissingValue
	}
	return filter.CleanText(found.Text())
}
