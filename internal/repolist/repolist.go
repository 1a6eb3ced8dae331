// Package repolist turns pasted multi-line text into repository references.
package repolist

import (
	"strconv"
	"strings"
	"unicode"
)

// Prefix is the literal scheme prefix a line must start with to be kept.
const Prefix = "http"

// List holds the references recognized in a block of pasted text.
type List struct {
	Repos []string
	Raw   string // the text exactly as pasted
}

// Count returns the number of recognized references.
func (l *List) Count() int {
	return len(l.Repos)
}

// Empty reports whether nothing in the input was recognized.
func (l *List) Empty() bool {
	return len(l.Repos) == 0
}

// Label returns the "N repositories detected" line for the list.
func (l *List) Label() string {
	return DetectedLabel(l.Count())
}

// Parse normalizes raw and keeps the original text alongside the result.
func Parse(raw string) *List {
	return &List{Repos: Normalize(raw), Raw: raw}
}

// Normalize splits raw on newlines, trims each line and keeps the lines that
// start with Prefix. Order and duplicates are preserved.
func Normalize(raw string) []string {
	repos := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimFunc(line, isTrimmable)
		if strings.HasPrefix(line, Prefix) {
			repos = append(repos, line)
		}
	}
	return repos
}

// isTrimmable matches whitespace and the byte order mark, which editors
// sometimes leave at the start of a saved list.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// DetectedLabel pluralizes the detected-count line; only a count of exactly
// one uses the singular form.
func DetectedLabel(n int) string {
	unit := "repositor"
	if n == 1 {
		unit += "y"
	} else {
		unit += "ies"
	}
	return strconv.Itoa(n) + " " + unit + " detected"
}

// Name returns the last path segment of a repository URL, which is how the
// analysis service names a project.
func Name(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
