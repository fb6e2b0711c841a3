package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-job-trend-analyzer/internal/filter"
	"go-job-trend-analyzer/internal/models"
)

// Store persists listings to a single CSV file with a header row.
// It does no locking; callers serialize writers.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Append adds listings after the existing rows and rewrites the whole file.
// The parent directory is created when missing.
func (s *Store) Append(listings []models.JobListing) error {
	existing, err := s.Load()
	if err != nil {
		return fmt.Errorf("read existing listings: %w", err)
	}

	all := make([]models.JobListing, 0, existing.Len()+len(listings))
	all = append(all, existing.Listings...)
	all = append(all, listings...)

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	defer f.Close()

	if err := writeCSV(f, all); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return f.Close()
}

// Load reads the file into a collection. A missing or zero-length file is an empty collection.
func (s *Store) Load() (models.Collection, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewCollection(), nil
	}
	if err != nil {
		return models.NewCollection(), fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.Size() == 0 {
		return models.NewCollection(), nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return models.NewCollection(), fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	listings, err := readCSV(f)
	if err != nil {
		return models.NewCollection(), fmt.Errorf("read %s: %w", s.path, err)
	}
	return models.NewCollection(listings...), nil
}

// Clear deletes the file and reports whether there was one.
func (s *Store) Clear() (bool, error) {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", s.path, err)
	}
	return true, nil
}

func writeCSV(w io.Writer, listings []models.JobListing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return err
	}
	for _, l := range listings {
		if err := cw.Write(l.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader) ([]models.JobListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var listings []models.JobListing
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blankRow(row) {
			continue
		}
		listings = append(listings, listingFromRow(row, index))
	}
	return listings, nil
}

func listingFromRow(row []string, index map[string]int) models.JobListing {
	var l models.JobListing
	for _, col := range models.Columns {
		value := ""
		if i, ok := index[col]; ok && i < len(row) {
			value = row[i]
		}
		if strings.TrimSpace(value) == "" {
			value = missingFor(col)
		}
		l.Set(col, value)
	}
	if t, ok := filter.ParsePostedDate(l.DatePosted); ok {
		l.PostedAt = &t
	}
	return l
}

func missingFor(column string) string {
	if column == models.ColSource {
		return models.UnknownSource
	}
	return models.MissingValue
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
