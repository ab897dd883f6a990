package dashboard

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// groupThreshold is the minimum similarity for two labels to be
// treated as the same category.
const groupThreshold = 0.8

// FuzzyGroup merges near-duplicate labels in a count map: each label
// is folded into the closest already-kept label when their similarity
// clears the threshold, otherwise it starts its own group. Labels are
// visited in descending count order so the dominant spelling wins.
func FuzzyGroup(counts map[string]int) map[string]int {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	grouped := make(map[string]int)
	for _, label := range labels {
		if match, ok := closestMatch(label, grouped); ok {
			grouped[match] += counts[label]
			continue
		}
		grouped[label] += counts[label]
	}
	return grouped
}

// closestMatch finds the best existing group for a label.
func closestMatch(label string, grouped map[string]int) (string, bool) {
	best, bestScore := "", 0.0
	for existing := range grouped {
		score := levenshtein.Similarity(strings.ToLower(label), strings.ToLower(existing), nil)
		if score > bestScore {
			best, bestScore = existing, score
		}
	}
	if bestScore >= groupThreshold {
		return best, true
	}
	return "", false
}
