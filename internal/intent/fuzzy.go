package intent

import (
	"strings"

	"igris/internal/config"
	"igris/internal/logging"
)

// DefaultFuzzyThreshold is the minimum similarity ratio for a fuzzy match.
// Scores must exceed it strictly.
const DefaultFuzzyThreshold = 0.5

// FuzzyMatch scores the lowercased input against every catalogue phrase and
// returns the best-scoring entry above the threshold, or nil. Used only when
// the model path produced unparseable output; exact and substring matching
// have already failed by then.
func FuzzyMatch(input string, cat *config.Catalogue, threshold float64) *ResolvedIntent {
	if cat == nil {
		return nil
	}
	lowerIn := strings.ToLower(input)
	highest := threshold
	var best *config.CatalogueEntry
	for i := range cat.Tasks {
		entry := &cat.Tasks[i]
		for _, phrase := range entry.Phrases {
			score := Ratio(lowerIn, strings.ToLower(phrase))
			if score > highest {
				highest = score
				best = entry
			}
		}
	}
	if best == nil {
		return nil
	}
	logging.Get(logging.CategoryIntent).Debugw("fuzzy match", "task", best.Task, "score", highest)
	return &ResolvedIntent{
		TaskName:      best.Task,
		Action:        best.Action,
		RequiresAdmin: best.RequiresAdmin,
		Reasoning:     ReasonFuzzyMatch,
		Source:        SourceFuzzy,
	}
}

// Ratio is the similarity of two strings in [0,1]: twice the total length of
// their matching blocks divided by the combined length. Matching blocks are
// found by recursively splitting around the longest common substring, which
// reproduces difflib's SequenceMatcher.ratio without the junk heuristic.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	matched := matchingLen(a, b)
	return 2 * float64(matched) / float64(total)
}

// matchingLen returns the summed length of the matching blocks of a and b.
func matchingLen(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	left := matchingLen(a[:ai], b[:bi])
	right := matchingLen(a[ai+size:], b[bi+size:])
	return left + size + right
}

// longestCommonSubstring finds the longest run of bytes common to a and b,
// returning its start offsets and length. Dynamic programming over a single
// rolling row; earliest-in-a wins ties, as SequenceMatcher does.
func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
