package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igris/internal/config"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("abc", "abc"))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))

	// "abcd" vs "bcde": matching block "bcd" of length 3, total 8.
	assert.InDelta(t, 0.75, Ratio("abcd", "bcde"), 1e-9)

	// Symmetric totals give symmetric scores.
	assert.InDelta(t, Ratio("restart computer", "restart the computer"),
		Ratio("restart the computer", "restart computer"), 1e-9)
}

func TestRatioMultipleBlocks(t *testing.T) {
	// "ab__cd" vs "abxxcd": blocks "ab" and "cd" both count, 2*4/12.
	assert.InDelta(t, 2.0/3.0, Ratio("ab__cd", "abxxcd"), 1e-9)
}

func TestFuzzyMatchAboveThreshold(t *testing.T) {
	cat := &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "reboot", Phrases: []string{"restart the computer"}, Action: "shutdown /r", RequiresAdmin: true},
		{Task: "notepad", Phrases: []string{"open notepad"}, Action: "notepad.exe"},
	}}

	res := FuzzyMatch("restart computer", cat, DefaultFuzzyThreshold)
	require.NotNil(t, res)
	assert.Equal(t, "reboot", res.TaskName)
	assert.Equal(t, ReasonFuzzyMatch, res.Reasoning)
	assert.Equal(t, SourceFuzzy, res.Source)
	assert.True(t, res.RequiresAdmin)
}

func TestFuzzyMatchBestScoreWins(t *testing.T) {
	cat := &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "close", Phrases: []string{"close notepad"}, Action: "a"},
		{Task: "open", Phrases: []string{"open notepad now"}, Action: "b"},
	}}

	res := FuzzyMatch("open notepad now please", cat, DefaultFuzzyThreshold)
	require.NotNil(t, res)
	assert.Equal(t, "open", res.TaskName)
}

func TestFuzzyMatchThresholdIsStrict(t *testing.T) {
	cat := &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "t", Phrases: []string{"ab"}, Action: "a"},
	}}

	// Ratio("abcd","ab") = 2*2/6 ≈ 0.667; a threshold at exactly that score
	// must reject because scores have to exceed it strictly.
	score := Ratio("abcd", "ab")
	assert.Nil(t, FuzzyMatch("abcd", cat, score))
	require.NotNil(t, FuzzyMatch("abcd", cat, score-0.01))
}

func TestFuzzyMatchNoCandidate(t *testing.T) {
	cat := &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "t", Phrases: []string{"open notepad"}, Action: "a"},
	}}

	assert.Nil(t, FuzzyMatch("zzzzqqqq", cat, DefaultFuzzyThreshold))
	assert.Nil(t, FuzzyMatch("anything", nil, DefaultFuzzyThreshold))
}
