package models

import "time"

// MissingValue is the placeholder stored for any field that could not be extracted.
const MissingValue = "N/A"

// UnknownSource is substituted for a missing source column on load.
const UnknownSource = "Unknown"

// Column names of the persisted file, in order.
const (
	ColTitle       = "title"
	ColCompany     = "company"
	ColLocation    = "location"
	ColSalary      = "salary"
	ColURL         = "url"
	ColDatePosted  = "date_posted"
	ColDescription = "description"
	ColSkills      = "skills"
	ColSource      = "source"
)

// Columns is the fixed schema of the listings file.
var Columns = []string{
	ColTitle, ColCompany, ColLocation, ColSalary, ColURL,
	ColDatePosted, ColDescription, ColSkills, ColSource,
}

// JobListing is one scraped job posting.
type JobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	URL         string `json:"url"`
	DatePosted  string `json:"date_posted"`
	Description string `json:"description"`
	Skills      string `json:"skills"`
	Source      string `json:"source"`

	// PostedAt is DatePosted coerced to a calendar date when the listing was loaded from disk.
	// Nil means the text could not be parsed.
	PostedAt *time.Time `json:"posted_at,omitempty"`
}

// Record returns the listing as a row in Columns order.
func (j JobListing) Record() []string {
	return []string{
		j.Title, j.Company, j.Location, j.Salary, j.URL,
		j.DatePosted, j.Description, j.Skills, j.Source,
	}
}

// Set assigns a field by column name. Unknown columns are ignored.
func (j *JobListing) Set(column, value string) {
	switch column {
	case ColTitle:
		j.Title = value
	case ColCompany:
		j.Company = value
	case ColLocation:
		j.Location = value
	case ColSalary:
		j.Salary = value
	case ColURL:
		j.URL = value
	case ColDatePosted:
		j.DatePosted = value
	case ColDescription:
		j.Description = value
	case ColSkills:
		j.Skills = value
	case ColSource:
		j.Source = value
	}
}

// Collection is the full set of listings currently on disk.
type Collection struct {
	Columns  []string     `json:"columns"`
	Listings []JobListing `json:"listings"`
}

// NewCollection returns a collection with the fixed schema holding the given listings.
func NewCollection(listings ...JobListing) Collection {
	cols := make([]string, len(Columns))
	copy(cols, Columns)
	if listings == nil {
		listings = []JobListing{}
	}
	return Collection{Columns: cols, Listings: listings}
}

// Len returns the number of rows.
func (c Collection) Len() int {
	return len(c.Listings)
}

// Empty reports whether the collection has no rows.
func (c Collection) Empty() bool {
	return len(c.Listings) == 0
}
