package filter

import (
	"strings"

	"go-job-trend-analyzer/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SkillSeparator joins skills in the persisted skills column.
const SkillSeparator = ", "

// skillVocabulary is scanned in this order; results keep it.
var skillVocabulary = []string{
	"python", "java", "sql", "javascript", "html", "css",
	"aws", "azure", "docker", "kubernetes", "machine learning",
	"data analysis", "excel", "tableau", "power bi", "react",
	"angular", "node.js", "django", "flask", "pandas", "numpy",
	"tensorflow", "pytorch", "git", "linux", "rest api", "mongodb",
	"mysql", "postgresql", "spark", "hadoop", "scala", "c++", "c#",
	"php", "ruby", "go", "rust", "typescript",
}

var lower = cases.Lower(language.Und)

// Vocabulary returns a copy of the skill terms in scan order.
func Vocabulary() []string {
	out := make([]string, len(skillVocabulary))
	copy(out, skillVocabulary)
	return out
}

// ExtractSkills returns the vocabulary terms that occur in description.
// Matching is plain substring search on the lower-cased text, so "go" also
// matches inside "good" or "google".
func ExtractSkills(description string) []string {
	skills := []string{}
	if description == "" {
		return skills
	}

	text := lower.String(description)
	for _, skill := range skillVocabulary {
		if strings.Contains(text, skill) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// JoinSkills renders skills for the skills column, or MissingValue when none were found.
func JoinSkills(skills []string) string {
	if len(skills) == 0 {
		return models.MissingValue
	}
	return strings.Join(skills, SkillSeparator)
}

// SplitSkills is the inverse of JoinSkills for a non-missing value.
func SplitSkills(value string) []string {
	return strings.Split(value, SkillSeparator)
}
