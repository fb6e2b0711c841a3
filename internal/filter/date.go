package filter

import (
	"regexp"
	"strings"
	"time"

	"go-job-trend-analyzer/internal/models"
)

var (
	isoDateRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDateRegex = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// layouts tried for text that is neither ISO nor slash-separated.
var namedMonthLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
}

// ParsePostedDate coerces a posting date into a calendar date (UTC midnight).
// It returns false for anything it cannot read, including relative text such
// as "3 days ago" and the missing-value marker.
func ParsePostedDate(dateStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" || dateStr == models.MissingValue {
		return time.Time{}, false
	}

	//case 1: ISO "2026-01-27", "2026-01-27T10:00:00Z" or a local date-time
	if isoDateRegex.MatchString(dateStr) {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, dateStr); err == nil {
				return truncateDay(t), true
			}
		}
		return time.Time{}, false
	}

	//case 2: mm/dd/yyyy (month first)
	if slashDateRegex.MatchString(dateStr) {
		if t, err := time.Parse("1/2/2006", dateStr); err == nil {
			return truncateDay(t), true
		}
		return time.Time{}, false
	}

	//case 3: named months
	for _, layout := range namedMonthLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return truncateDay(t), true
		}
	}

	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
