package internal

import (
	"sort"
	"strings"
)

// SimilarNames returns up to max candidates within edit distance of target,
// closest first. Matching ignores case. The threshold is half the target
// length but never below two edits.
func SimilarNames(target string, candidates []string, max int) []string {
	if len(candidates) == 0 || max <= 0 {
		return nil
	}

	threshold := len([]rune(target)) / 2
	if threshold < SuggestionMinDistance {
		threshold = SuggestionMinDistance
	}

	type scored struct {
		name     string
		distance int
	}

	lowered := strings.ToLower(target)
	var similar []scored
	for _, c := range candidates {
		if c == target {
			continue
		}
		if d := editDistance(lowered, strings.ToLower(c)); d <= threshold {
			similar = append(similar, scored{name: c, distance: d})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		if similar[i].distance != similar[j].distance {
			return similar[i].distance < similar[j].distance
		}
		return similar[i].name < similar[j].name
	})

	if len(similar) > max {
		similar = similar[:max]
	}
	names := make([]string, len(similar))
	for i, s := range similar {
		names[i] = s.name
	}
	return names
}

// editDistance is the Levenshtein distance between a and b, in runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
