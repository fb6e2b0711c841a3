package indeed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/filter"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/models"
	"go-job-trend-analyzer/internal/scraper"
	"go-job-trend-analyzer/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// resultsPerPage is Indeed's page stride for the start parameter.
const resultsPerPage = 10

const (
	cardSelector        = "div.job_seen_beacon"
	titleSelector       = "h2.jobTitle"
	linkSelector        = "h2.jobTitle a"
	companySelector     = "span.companyName"
	locationSelector    = "div.companyLocation"
	salarySelector      = "div.metadata.salary-snippet-container"
	dateSelector        = "span.date"
	descriptionSelector = "div#jobDescriptionText"
)

type IndeedScraper struct {
	client  *resty.Client
	baseURL *url.URL
	log     logger.Logger
	sleep   func()
}

type Option func(*IndeedScraper)

// WithSleep replaces the polite delay taken after each request.
func WithSleep(fn func()) Option {
	return func(s *IndeedScraper) { s.sleep = fn }
}

// WithClient replaces the resty client, mainly for tests.
func WithClient(c *resty.Client) Option {
	return func(s *IndeedScraper) { s.client = c }
}

func NewIndeedScraper(cfg *config.Config, log logger.Logger, opts ...Option) (*IndeedScraper, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Indeed.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid indeed base url: %w", err)
	}

	client := resty.New().
		SetHeader("User-Agent", cfg.HTTP.UserAgent)
	if cfg.HTTP.Timeout > 0 {
		client.SetTimeout(cfg.HTTP.Timeout)
	}

	s := &IndeedScraper{
		client:  client,
		baseURL: base,
		log:     log.With(logger.String("source", scraper.SourceIndeed)),
		sleep:   utils.PoliteSleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *IndeedScraper) Name() string {
	return scraper.SourceIndeed
}

// Scrape never fails on a single page: transport errors and non-200 pages are
// logged and skipped. Only a cancelled context stops it early.
func (s *IndeedScraper) Scrape(ctx context.Context, q scraper.Query) ([]models.JobListing, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var listings []models.JobListing
	searchURL := s.baseURL.JoinPath("jobs").String()

	for page := 0; page < q.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"q":     q.Term,
				"l":     q.Location,
				"start": strconv.Itoa(page * resultsPerPage),
			}).
			Get(searchURL)
		s.sleep()

		if err != nil {
			s.log.Warn("Failed to fetch Indeed page",
				logger.Int("page", page+1),
				logger.Error(err),
			)
			continue
		}
		if resp.StatusCode() != http.StatusOK {
			s.log.Warn("Failed to fetch Indeed page",
				logger.Int("page", page+1),
				logger.Int("status", resp.StatusCode()),
			)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
		if err != nil {
			s.log.Warn("Failed to parse Indeed page", logger.Int("page", page+1), logger.Error(err))
			continue
		}

		cards := doc.Find(cardSelector)
		s.log.Debug("Found job cards", logger.Int("page", page+1), logger.Int("cards", cards.Length()))

		cards.Each(func(_ int, card *goquery.Selection) {
			listings = append(listings, s.parseCard(ctx, card))
		})
	}

	s.log.Info("Indeed scrape finished", logger.Int("listings", len(listings)))
	return listings, nil
}

func (s *IndeedScraper) parseCard(ctx context.Context, card *goquery.Selection) models.JobListing {
	job := models.JobListing{
		Title:      textOrMissing(card, titleSelector),
		Company:    textOrMissing(card, companySelector),
		Location:   textOrMissing(card, locationSelector),
		Salary:     textOrMissing(card, salarySelector),
		URL:        s.resolveLink(card),
		DatePosted: textOrMissing(card, dateSelector),
		Source:     scraper.SourceIndeed,
	}

	job.Description = s.fetchDescription(ctx, job.URL)
	job.Skills = filter.JoinSkills(filter.ExtractSkills(job.Description))
	return job
}

func (s *IndeedScraper) resolveLink(card *goquery.Selection) string {
	href, ok := card.Find(linkSelector).First().Attr("href")
	if !ok || href == "" {
		return models.MissingValue
	}
	ref, err := url.Parse(href)
	if err != nil {
		return models.MissingValue
	}
	return s.baseURL.ResolveReference(ref).String()
}

// fetchDescription returns N/A for a missing link, a failed request or a non-200 response.
func (s *IndeedScraper) fetchDescription(ctx context.Context, jobURL string) string {
	if jobURL == models.MissingValue {
		return models.MissingValue
	}

	resp, err := s.client.R().SetContext(ctx).Get(jobURL)
	s.sleep()
	if err != nil {
		s.log.Warn("Error fetching job description", logger.String("url", jobURL), logger.Error(err))
		return models.MissingValue
	}
	if resp.StatusCode() != http.StatusOK {
		return models.MissingValue
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return models.MissingValue
	}
	return textOrMissing(doc.Selection, descriptionSelector)
}

func textOrMissing(sel *goquery.Selection, selector string) string {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return models.MissingValue
	}
	return filter.CleanText(found.Text())
}
