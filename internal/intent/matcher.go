package intent

import (
	"strings"

	"igris/internal/config"
	"igris/internal/logging"
)

// Match resolves input against the catalogue without any model round-trip.
//
// The scan is a single pass in catalogue load order. An exact normalized
// match returns immediately and always wins, wherever it sits in the
// catalogue. Otherwise the first entry whose normalized phrase is a
// substring of the normalized input is remembered and returned at the end;
// later substring hits are ignored even when longer or more specific. That
// first-found tie-break is load-bearing for existing catalogues: authors
// order entries to shadow each other.
//
// Absence of a match returns nil, never an error.
func Match(input string, cat *config.Catalogue) *ResolvedIntent {
	if cat == nil {
		return nil
	}
	cleanIn := Normalize(input)
	if cleanIn == "" {
		return nil
	}

	var partial *ResolvedIntent
	for _, entry := range cat.Tasks {
		for _, phrase := range entry.Phrases {
			cleanPhrase := Normalize(phrase)
			if cleanPhrase == "" {
				continue
			}
			if cleanPhrase == cleanIn {
				logging.Get(logging.CategoryIntent).Debugw("exact offline match",
					"task", entry.Task, "phrase", phrase)
				return &ResolvedIntent{
					TaskName:      entry.Task,
					Action:        entry.Action,
					RequiresAdmin: entry.RequiresAdmin,
					Reasoning:     ReasonExactMatch,
					Source:        SourceOffline,
				}
			}
			if partial == nil && strings.Contains(cleanIn, cleanPhrase) {
				partial = &ResolvedIntent{
					TaskName:      entry.Task,
					Action:        entry.Action,
					RequiresAdmin: entry.RequiresAdmin,
					Reasoning:     ReasonPartialMatch,
					Source:        SourceOffline,
				}
			}
		}
	}
	if partial != nil {
		logging.Get(logging.CategoryIntent).Debugw("partial offline match", "task", partial.TaskName)
	}
	return partial
}
