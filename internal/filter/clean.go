package filter

import "strings"

// CleanText collapses runs of whitespace into single spaces and trims both ends.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}
