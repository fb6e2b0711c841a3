// Package pipeline runs the user-facing operations: scrape now, refresh and clear.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-job-trend-analyzer/internal/dashboard"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/models"
	"go-job-trend-analyzer/internal/scraper"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrScrapeInProgress is returned when an operation needs the data file while a scrape holds it.
var ErrScrapeInProgress = errors.New("a scrape is already in progress")

type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

const (
	msgNoJobs       = "No jobs found with these parameters"
	msgCleared      = "Data cleared successfully!"
	msgNothingClear = "No data file found to delete"
	msgRefreshed    = "Data refreshed"
)

// Result is the outcome shown to the user after an operation.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// SourceResult is one scraper's share of a run.
type SourceResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

type ScrapeResult struct {
	Result
	RunID      string         `json:"run_id"`
	Query      scraper.Query  `json:"-"`
	Total      int            `json:"total"`
	Sources    []SourceResult `json:"sources"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Store is the persistence the pipeline writes to.
type Store interface {
	Append(listings []models.JobListing) error
	Clear() (bool, error)
}

// Cache is the dashboard view of the store.
type Cache interface {
	Snapshot() dashboard.Snapshot
	Invalidate()
}

// Notifier is told about every finished scrape.
type Notifier interface {
	NotifyScrape(ctx context.Context, result ScrapeResult) error
}

type Pipeline struct {
	scrapers []scraper.Scraper
	store    Store
	cache    Cache
	notifier Notifier
	log      logger.Logger
	printer  *message.Printer
	now      func() time.Time

	mu sync.Mutex
}

type Option func(*Pipeline)

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// New runs scrapers in the given order; their outputs are concatenated in that order.
func New(scrapers []scraper.Scraper, store Store, cache Cache, log logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		scrapers: scrapers,
		store:    store,
		cache:    cache,
		log:      log,
		printer:  message.NewPrinter(language.English),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scrape runs every source in sequence, appends what they found and invalidates the cache.
// A failing source is recorded in the result and does not stop the others. The run is
// detached from ctx cancellation. The returned error is only ErrScrapeInProgress or a
// rejected query; everything else is reported through the result.
func (p *Pipeline) Scrape(ctx context.Context, q scraper.Query) (ScrapeResult, error) {
	if err := q.Validate(); err != nil {
		return ScrapeResult{}, err
	}
	if !p.mu.TryLock() {
		return ScrapeResult{}, ErrScrapeInProgress
	}
	defer p.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	result := ScrapeResult{
		RunID:     uuid.NewString(),
		Query:     q,
		StartedAt: p.now(),
	}
	log := p.log.With(logger.String("run_id", result.RunID), logger.String("term", q.Term))
	log.Info("Scrape started", logger.String("location", q.Location), logger.Int("pages", q.Pages))

	var all []models.JobListing
	var failures []string
	for _, s := range p.scrapers {
		listings, err := s.Scrape(ctx, q)
		sr := SourceResult{Source: s.Name(), Count: len(listings)}
		if err != nil {
			sr.Error = err.Error()
			failures = append(failures, fmt.Sprintf("%s: %v", s.Name(), err))
			log.Error("Source failed", logger.String("source", s.Name()), logger.Int("partial", len(listings)), logger.Error(err))
		} else {
			log.Info("Source finished", logger.String("source", s.Name()), logger.Int("listings", len(listings)))
		}
		result.Sources = append(result.Sources, sr)
		all = append(all, listings...)
	}
	result.Total = len(all)

	switch {
	case len(all) > 0:
		if err := p.store.Append(all); err != nil {
			result.Result = failed(fmt.Errorf("save listings: %w", err))
			log.Error("Failed to save listings", logger.Error(err))
			break
		}
		result.Result = Result{Status: StatusSuccess, Message: p.printer.Sprintf("Scraped %d jobs successfully!", len(all))}
	case len(failures) > 0 && len(failures) == len(p.scrapers):
		result.Result = failed(errors.New(strings.Join(failures, "; ")))
	default:
		result.Result = Result{Status: StatusWarning, Message: msgNoJobs}
	}

	p.cache.Invalidate()
	result.FinishedAt = p.now()
	log.Info("Scrape finished",
		logger.String("status", string(result.Status)),
		logger.Int("total", result.Total),
		logger.Any("sources", result.Sources),
		logger.Duration("took", result.FinishedAt.Sub(result.StartedAt)),
	)

	if p.notifier != nil {
		if err := p.notifier.NotifyScrape(ctx, result); err != nil {
			log.Warn("Failed to send scrape notification", logger.Error(err))
		}
	}
	return result, nil
}

// Clear deletes the data file. A missing file is a warning, not an error.
func (p *Pipeline) Clear() (Result, error) {
	if !p.mu.TryLock() {
		return Result{}, ErrScrapeInProgress
	}
	defer p.mu.Unlock()

	existed, err := p.store.Clear()
	p.cache.Invalidate()
	if err != nil {
		p.log.Error("Failed to clear data", logger.Error(err))
		return Result{Status: StatusError, Message: fmt.Sprintf("Failed to clear data: %v", err)}, nil
	}
	if !existed {
		return Result{Status: StatusWarning, Message: msgNothingClear}, nil
	}
	p.log.Info("Data cleared")
	return Result{Status: StatusSuccess, Message: msgCleared}, nil
}

// Refresh drops the cache and reloads immediately.
func (p *Pipeline) Refresh() (Result, dashboard.Snapshot) {
	p.cache.Invalidate()
	snap := p.cache.Snapshot()
	if snap.Err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("Error loading data: %v", snap.Err)}, snap
	}
	return Result{Status: StatusSuccess, Message: msgRefreshed}, snap
}

// Snapshot is the cached collection used by read-only views.
func (p *Pipeline) Snapshot() dashboard.Snapshot {
	return p.cache.Snapshot()
}

// Busy reports whether a scrape or clear currently holds the data file.
func (p *Pipeline) Busy() bool {
	if p.mu.TryLock() {
		p.mu.Unlock()
		return false
	}
	return true
}

func failed(err error) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf("Scraping failed: %v", err)}
}
