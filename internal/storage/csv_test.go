package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-job-trend-analyzer/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(title, source string) models.JobListing {
	return models.JobListing{
		Title:       title,
		Company:     "Acme",
		Location:    "Remote",
		Salary:      models.MissingValue,
		URL:         "https://example.com/" + title,
		DatePosted:  "2024-03-05",
		Description: "python and sql",
		Skills:      "python, sql",
		Source:      source,
	}
}

func withDate(l models.JobListing, t time.Time) models.JobListing {
	l.PostedAt = &t
	return l
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data", "jobs_data.csv"))
}

func writeFile(t *testing.T, s *Store, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(body), 0o644))
}

func TestStore_LoadMissingOrEmptyFile(t *testing.T) {
	s := newStore(t)

	c, err := s.Load()
	require.NoError(t, err)
	assert.True(t, c.Empty())
	assert.Equal(t, models.Columns, c.Columns)

	writeFile(t, s, "")
	c, err = s.Load()
	require.NoError(t, err)
	assert.True(t, c.Empty())
	assert.Len(t, c.Columns, 9)
}

func TestStore_AppendRoundTrip(t *testing.T) {
	s := newStore(t)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	batch := []models.JobListing{
		listing("a", "Indeed"), listing("b", "Indeed"), listing("c", "Indeed"),
		listing("d", "LinkedIn"), listing("e", "LinkedIn"),
	}
	require.NoError(t, s.Append(batch))

	c, err := s.Load()
	require.NoError(t, err)

	want := make([]models.JobListing, len(batch))
	for i, l := range batch {
		want[i] = withDate(l, day)
	}
	if diff := cmp.Diff(want, c.Listings); diff != "" {
		t.Errorf("loaded listings mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_AppendKeepsExistingRowsFirst(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Append([]models.JobListing{listing("old", "Indeed")}))
	require.NoError(t, s.Append([]models.JobListing{listing("new", "LinkedIn")}))

	c, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "old", c.Listings[0].Title)
	assert.Equal(t, "new", c.Listings[1].Title)
}

func TestStore_AppendEmptyBatchWritesHeader(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Append(nil))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "title,company,location,salary,url,date_posted,description,skills,source\n", string(data))
}

func TestStore_LoadBackfillsMissingColumnsAndBlanks(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, "title,company,date_posted\n"+
		"Data Analyst,,3 days ago\n"+
		",,\n"+
		"BI Developer,Globex,03/05/2024\n")

	c, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 2, c.Len(), "all-blank row is dropped")

	first := c.Listings[0]
	assert.Equal(t, "Data Analyst", first.Title)
	assert.Equal(t, models.MissingValue, first.Company)
	assert.Equal(t, models.MissingValue, first.Salary)
	assert.Equal(t, models.MissingValue, first.Skills)
	assert.Equal(t, models.UnknownSource, first.Source)
	assert.Nil(t, first.PostedAt, "relative dates are not parsed")

	second := c.Listings[1]
	require.NotNil(t, second.PostedAt)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *second.PostedAt)
}

func TestStore_LoadToleratesRaggedRows(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, "title,company,source\n"+
		"Short\n"+
		"Long,Acme,Indeed,extra\n")

	c, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, models.MissingValue, c.Listings[0].Company)
	assert.Equal(t, models.UnknownSource, c.Listings[0].Source)
	assert.Equal(t, "Indeed", c.Listings[1].Source)
}

func TestStore_LoadMalformed(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, "title,company\n\"unterminated,Acme\n")

	c, err := s.Load()
	assert.Error(t, err)
	assert.True(t, c.Empty())
	assert.Len(t, c.Columns, 9)

	assert.Error(t, s.Append([]models.JobListing{listing("x", "Indeed")}), "malformed file is never overwritten")
}

func TestStore_Clear(t *testing.T) {
	s := newStore(t)

	existed, err := s.Clear()
	require.NoError(t, err)
	assert.False(t, existed)

	require.NoError(t, s.Append([]models.JobListing{listing("a", "Indeed")}))
	existed, err = s.Clear()
	require.NoError(t, err)
	assert.True(t, existed)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}
