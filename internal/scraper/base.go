// Define an interface for all scrapers
// Ensure consistency

package scraper

import (
	"context"
	"errors"

	"go-job-trend-analyzer/internal/models"
)

// Source names stored in the source column.
const (
	SourceIndeed   = "Indeed"
	SourceLinkedIn = "LinkedIn"
)

// ErrEmptyTerm is returned when a search is requested without a term.
var ErrEmptyTerm = errors.New("search term must not be empty")

// Query is one search request. Location may be empty.
type Query struct {
	Term     string
	Location string
	Pages    int
}

// Validate checks the query before any request is made.
func (q Query) Validate() error {
	if q.Term == "" {
		return ErrEmptyTerm
	}
	if q.Pages < 1 {
		return errors.New("pages must be at least 1")
	}
	return nil
}

// Scraper defines the interface that all job sites must implement
type Scraper interface {
	// Scrape visits pages 0..q.Pages-1 and returns listings in page then card order.
	// On a fatal error it returns the listings collected so far along with the error.
	Scrape(ctx context.Context, q Query) ([]models.JobListing, error)

	// Name is the value written to the source column (Indeed, LinkedIn)
	Name() string
}
