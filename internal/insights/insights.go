// Package insights computes the dashboard aggregates over a listing collection.
// "N/A" and blank cells are treated as absent everywhere.
package insights

import (
	"sort"
	"strings"
	"time"

	"go-job-trend-analyzer/internal/filter"
	"go-job-trend-analyzer/internal/models"
)

const (
	TopTitlesLimit      = 10
	TopLocationsLimit   = 15
	TopSkillsLimit      = 15
	SkillsPerTitleLimit = 10
)

type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

type Summary struct {
	Total           int    `json:"total"`
	UniqueCompanies int    `json:"unique_companies"`
	UniqueLocations int    `json:"unique_locations"`
	PrimarySource   string `json:"primary_source"`
}

type Insights struct {
	Summary        Summary    `json:"summary"`
	TopTitles      []Count    `json:"top_titles"`
	TopLocations   []Count    `json:"top_locations"`
	Sources        []Count    `json:"sources"`
	TopSkills      []Count    `json:"top_skills"`
	SkillTitles    []string   `json:"skill_titles"`
	PostingsPerDay []DayCount `json:"postings_per_day"`
}

// Build computes every aggregate for c. An empty collection yields zero values and empty slices.
func Build(c models.Collection) Insights {
	titles := column(c, func(l models.JobListing) string { return l.Title })
	locations := column(c, func(l models.JobListing) string { return l.Location })
	companies := column(c, func(l models.JobListing) string { return l.Company })
	sources := column(c, func(l models.JobListing) string { return l.Source })

	sourceCounts := ValueCounts(sources)
	skills := explodeSkills(c)

	return Insights{
		Summary: Summary{
			Total:           c.Len(),
			UniqueCompanies: countDistinct(companies),
			UniqueLocations: countDistinct(locations),
			PrimarySource:   mode(sourceCounts),
		},
		TopTitles:      TopN(ValueCounts(titles), TopTitlesLimit),
		TopLocations:   TopN(ValueCounts(locations), TopLocationsLimit),
		Sources:        sourceCounts,
		TopSkills:      TopN(ValueCounts(skillValues(skills)), TopSkillsLimit),
		SkillTitles:    skillTitles(skills),
		PostingsPerDay: PostingsPerDay(c),
	}
}

// ValueCounts counts each present value, most frequent first. Equal counts
// keep the order in which values first appeared.
func ValueCounts(values []string) []Count {
	index := make(map[string]int)
	counts := []Count{}
	for _, v := range values {
		if absent(v) {
			continue
		}
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopN returns at most n leading entries.
func TopN(counts []Count, n int) []Count {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

// SkillsForTitle counts the skills of listings whose title equals title exactly.
func SkillsForTitle(c models.Collection, title string, n int) []Count {
	var values []string
	for _, s := range explodeSkills(c) {
		if s.title == title {
			values = append(values, s.skill)
		}
	}
	return TopN(ValueCounts(values), n)
}

// PostingsPerDay counts listings per parsed posting date, oldest first.
// Listings without a parsed date are excluded.
func PostingsPerDay(c models.Collection) []DayCount {
	byDay := make(map[time.Time]int)
	for _, l := range c.Listings {
		if l.PostedAt == nil {
			continue
		}
		y, m, d := l.PostedAt.Date()
		byDay[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)]++
	}

	days := make([]DayCount, 0, len(byDay))
	for day, n := range byDay {
		days = append(days, DayCount{Date: day, Count: n})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// Recent returns a copy of the listings ordered by posting date, newest first.
// Undated listings keep their file order after all dated ones.
func Recent(c models.Collection) []models.JobListing {
	out := make([]models.JobListing, len(c.Listings))
	copy(out, c.Listings)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PostedAt, out[j].PostedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out
}

type titledSkill struct {
	title string
	skill string
}

// explodeSkills yields one entry per skill of each listing whose skills cell is not N/A.
func explodeSkills(c models.Collection) []titledSkill {
	var out []titledSkill
	for _, l := range c.Listings {
		if l.Skills == models.MissingValue {
			continue
		}
		for _, skill := range filter.SplitSkills(l.Skills) {
			out = append(out, titledSkill{title: l.Title, skill: skill})
		}
	}
	return out
}

func skillValues(skills []titledSkill) []string {
	values := make([]string, len(skills))
	for i, s := range skills {
		values[i] = s.skill
	}
	return values
}

func skillTitles(skills []titledSkill) []string {
	seen := make(map[string]bool)
	titles := []string{}
	for _, s := range skills {
		if absent(s.title) || seen[s.title] {
			continue
		}
		seen[s.title] = true
		titles = append(titles, s.title)
	}
	return titles
}

func column(c models.Collection, get func(models.JobListing) string) []string {
	values := make([]string, len(c.Listings))
	for i, l := range c.Listings {
		values[i] = get(l)
	}
	return values
}

func countDistinct(values []string) int {
	seen := make(map[string]struct{})
	for _, v := range values {
		if !absent(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// mode picks the most frequent value; ties go to the lexically smallest.
func mode(counts []Count) string {
	if len(counts) == 0 {
		return models.MissingValue
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c.Count < best.Count {
			break
		}
		if c.Value < best.Value {
			best = c
		}
	}
	return best.Value
}

func absent(v string) bool {
	return v == models.MissingValue || strings.TrimSpace(v) == ""
}
