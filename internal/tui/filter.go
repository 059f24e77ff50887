package tui

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// matchesName reports whether a friend's name matches a filter query.
// A substring always matches; otherwise each word of the name is compared
// with the query over the query's length, allowing one typo per four runes.
func matchesName(name, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	n := strings.ToLower(name)
	if strings.Contains(n, q) {
		return true
	}

	budget := len([]rune(q)) / 4
	if budget == 0 {
		return false
	}
	for _, word := range strings.Fields(n) {
		w := []rune(word)
		if len(w) > len([]rune(q)) {
			w = w[:len([]rune(q))]
		}
		if levenshtein.ComputeDistance(string(w), q) <= budget {
			return true
		}
	}
	return false
}
