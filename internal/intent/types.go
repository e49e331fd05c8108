// Package intent turns free text into a resolved, executable intent. It owns
// normalization, the offline phrase matcher, the fuzzy similarity fallback,
// and the hot-reloading catalogue store.
package intent

// Source records which resolution path produced an intent.
type Source string

const (
	SourceOffline Source = "offline"
	SourceLLM     Source = "llm"
	SourceFuzzy   Source = "fuzzy"
)

// Reasoning strings attached by the offline matcher. Catalogue tooling keys
// off these exact values.
const (
	ReasonExactMatch   = "Exact local match"
	ReasonPartialMatch = "Partial local match"
	ReasonFuzzyMatch   = "Matched locally from trained intents"
)

// ResolvedIntent is the structured output of any resolution path, ready for
// the admin gate and dispatch. It lives for one request only.
type ResolvedIntent struct {
	TaskName      string `json:"task_name"`
	Action        string `json:"action"`
	RequiresAdmin bool   `json:"requires_admin"`
	Reasoning     string `json:"reasoning"`
	Source        Source `json:"source"`
}
