package indeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/models"
	"go-job-trend-analyzer/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/viewjob?jk=1">  Data   Analyst </a></h2>
  <span class="companyName">Acme</span>
  <div class="companyLocation">Remote</div>
  <div class="metadata salary-snippet-container">$80,000 a year</div>
  <span class="date">Posted 3 days ago</span>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/viewjob?jk=2">BI Developer</a></h2>
  <span class="companyName">Globex</span>
  <div class="companyLocation">Austin, TX</div>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle">No Link Role</h2>
</div>
</body></html>`

const detailPage = `<html><body><div id="jobDescriptionText">
  We need Python and SQL.
</div></body></html>`

type fakeIndeed struct {
	searchStatus map[string]int
	detailStatus map[string]int
	searchBody   string
	searches     atomic.Int32
	details      atomic.Int32
	userAgents   []string
}

func (f *fakeIndeed) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		f.searches.Add(1)
		f.userAgents = append(f.userAgents, r.UserAgent())
		if status, ok := f.searchStatus[r.URL.Query().Get("start")]; ok {
			w.WriteHeader(status)
			return
		}
		if f.searchBody != "" {
			fmt.Fprint(w, f.searchBody)
			return
		}
		fmt.Fprint(w, searchPage)
	})
	mux.HandleFunc("/viewjob", func(w http.ResponseWriter, r *http.Request) {
		f.details.Add(1)
		if status, ok := f.detailStatus[r.URL.Query().Get("jk")]; ok {
			w.WriteHeader(status)
			return
		}
		fmt.Fprint(w, detailPage)
	})
	return mux
}

// closedURL returns the address of a server that is no longer listening.
func closedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	return addr
}

func newTestScraper(t *testing.T, srv *httptest.Server, sleeps *int) *IndeedScraper {
	t.Helper()
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Indeed.BaseURL = srv.URL

	s, err := NewIndeedScraper(cfg, logger.NewNop(), WithSleep(func() { *sleeps++ }))
	require.NoError(t, err)
	return s
}

func TestIndeedScraper_Scrape(t *testing.T) {
	fake := &fakeIndeed{detailStatus: map[string]int{"2": http.StatusNotFound}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	sleeps := 0
	s := newTestScraper(t, srv, &sleeps)

	jobs, err := s.Scrape(context.Background(), scraper.Query{Term: "Data Analyst", Pages: 1})
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	first := jobs[0]
	assert.Equal(t, "Data Analyst", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Remote", first.Location)
	assert.Equal(t, "$80,000 a year", first.Salary)
	assert.Equal(t, srv.URL+"/viewjob?jk=1", first.URL)
	assert.Equal(t, "Posted 3 days ago", first.DatePosted)
	assert.Equal(t, "We need Python and SQL.", first.Description)
	assert.Equal(t, "python, sql", first.Skills)
	assert.Equal(t, "Indeed", first.Source)

	// missing salary and date, detail page returns 404
	second := jobs[1]
	assert.Equal(t, "BI Developer", second.Title)
	assert.Equal(t, models.MissingValue, second.Salary)
	assert.Equal(t, models.MissingValue, second.DatePosted)
	assert.Equal(t, models.MissingValue, second.Description)
	assert.Equal(t, models.MissingValue, second.Skills)

	// no link means no detail request
	third := jobs[2]
	assert.Equal(t, "No Link Role", third.Title)
	assert.Equal(t, models.MissingValue, third.URL)
	assert.Equal(t, models.MissingValue, third.Description)
	assert.Equal(t, models.MissingValue, third.Company)

	assert.Equal(t, int32(1), fake.searches.Load())
	assert.Equal(t, int32(2), fake.details.Load())
	assert.Equal(t, 3, sleeps, "one polite delay per request")
	assert.Contains(t, fake.userAgents[0], "Chrome/91.0.4472.124")
}

func TestIndeedScraper_SkipsFailedPages(t *testing.T) {
	fake := &fakeIndeed{searchStatus: map[string]int{"0": http.StatusForbidden}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	sleeps := 0
	s := newTestScraper(t, srv, &sleeps)

	jobs, err := s.Scrape(context.Background(), scraper.Query{Term: "go", Pages: 2})
	require.NoError(t, err)

	assert.Len(t, jobs, 3, "only the second page yields cards")
	assert.Equal(t, int32(2), fake.searches.Load())
}

func TestIndeedScraper_AllPagesFailing(t *testing.T) {
	fake := &fakeIndeed{searchStatus: map[string]int{"0": http.StatusServiceUnavailable, "10": http.StatusServiceUnavailable}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	sleeps := 0
	s := newTestScraper(t, srv, &sleeps)

	jobs, err := s.Scrape(context.Background(), scraper.Query{Term: "go", Pages: 2})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, 2, sleeps)
}

func TestIndeedScraper_CancelledContext(t *testing.T) {
	fake := &fakeIndeed{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	sleeps := 0
	s := newTestScraper(t, srv, &sleeps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scrape(ctx, scraper.Query{Term: "go", Pages: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), fake.searches.Load())
}

func TestIndeedScraper_RejectsEmptyTerm(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	sleeps := 0
	s := newTestScraper(t, srv, &sleeps)

	_, err := s.Scrape(context.Background(), scraper.Query{Pages: 1})
	assert.ErrorIs(t, err, scraper.ErrEmptyTerm)
}

func TestIndeedScraper_TransportErrors(t *testing.T) {
	t.Run("detail link unreachable", func(t *testing.T) {
		dead := closedURL(t)
		fake := &fakeIndeed{searchBody: fmt.Sprintf(`<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="%s/viewjob?jk=9">Unreachable Role</a></h2>
  <span class="companyName">Initech</span>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/viewjob?jk=1">Reachable Role</a></h2>
</div>
</body></html>`, dead)}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		sleeps := 0
		s := newTestScraper(t, srv, &sleeps)

		jobs, err := s.Scrape(context.Background(), scraper.Query{Term: "go", Pages: 1})
		require.NoError(t, err)
		require.Len(t, jobs, 2)

		assert.Equal(t, "Unreachable Role", jobs[0].Title)
		assert.Equal(t, "Initech", jobs[0].Company)
		assert.Equal(t, models.MissingValue, jobs[0].Description)
		assert.Equal(t, models.MissingValue, jobs[0].Skills)

		assert.Equal(t, "Reachable Role", jobs[1].Title)
		assert.Equal(t, "We need Python and SQL.", jobs[1].Description)

		assert.Equal(t, int32(1), fake.details.Load())
		assert.Equal(t, 3, sleeps, "delay follows failed requests too")
	})

	t.Run("search host unreachable", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.SetDefaults()
		cfg.Indeed.BaseURL = closedURL(t)

		sleeps := 0
		s, err := NewIndeedScraper(cfg, logger.NewNop(), WithSleep(func() { sleeps++ }))
		require.NoError(t, err)

		jobs, err := s.Scrape(context.Background(), scraper.Query{Term: "go", Pages: 2})
		require.NoError(t, err)
		assert.Empty(t, jobs)
		assert.Equal(t, 2, sleeps, "each page is attempted then skipped")
	})
}
