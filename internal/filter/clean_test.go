package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Data Analyst", "Data Analyst"},
		{"  Data \n\t Analyst  ", "Data Analyst"},
		{"Remote in Austin", "Remote in Austin"},
		{"a  b   c", "a b c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "CleanText(%q)", tt.in)
	}
}

func TestCleanText_NoDoubledOrOuterWhitespace(t *testing.T) {
	inputs := []string{
		"\n\n  Senior   Go\tEngineer \r\n",
		"x",
		" leading",
		"trailing ",
		"\t\t",
	}
	for _, in := range inputs {
		out := CleanText(in)
		assert.NotContains(t, out, "  ")
		assert.Equal(t, strings.TrimSpace(out), out)
		assert.NotContains(t, out, "\t")
		assert.NotContains(t, out, "\n")
	}
}
