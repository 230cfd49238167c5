// Package fuzzy ranks aliases by edit distance for "did you mean" hints.
package fuzzy

import (
	"sort"
	"strings"
)

// minInputLen: single-character inputs are too ambiguous to suggest for.
const minInputLen = 2

// Match is a candidate within the distance limit
type Match struct {
	Value    string
	Distance int
}

// Rank returns the candidates within maxDistance of input, closest first.
// Ties keep a longer common prefix first, then candidate order.
// Comparison is case-insensitive; exact matches are not suggestions.
func Rank(input string, candidates []string, maxDistance int) []Match {
	in := []rune(strings.ToLower(input))
	if len(in) < minInputLen {
		return nil
	}

	var matches []Match
	for _, c := range candidates {
		cand := []rune(strings.ToLower(c))
		if string(cand) == string(in) {
			continue
		}
		if d := Distance(in, cand, maxDistance); d <= maxDistance {
			matches = append(matches, Match{Value: c, Distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return prefixLen(in, matches[i].Value) > prefixLen(in, matches[j].Value)
	})
	return matches
}

// Closest returns the best candidate, or "" when none is close enough.
func Closest(input string, candidates []string, maxDistance int) string {
	matches := Rank(input, candidates, maxDistance)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// Suggestions returns at most limit candidates, closest first.
func Suggestions(input string, candidates []string, maxDistance, limit int) []string {
	matches := Rank(input, candidates, maxDistance)
	out := make([]string, 0, min(len(matches), limit))
	for _, m := range matches[:min(len(matches), limit)] {
		out = append(out, m.Value)
	}
	return out
}

// Distance is the Levenshtein distance between a and b. Once the result is known
// to exceed bound it returns bound+1 early.
func Distance(a, b []rune, bound int) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > bound {
		return bound + 1
	}
	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > bound {
			return bound + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func prefixLen(in []rune, candidate string) int {
	n := 0
	for _, r := range strings.ToLower(candidate) {
		if n >= len(in) || in[n] != r {
			break
		}
		n++
	}
	return n
}
