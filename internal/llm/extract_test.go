package llm

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igris/internal/intent"
)

func TestParseIntentPlainJSON(t *testing.T) {
	res, err := ParseIntent(`{"task_name":"x","action":"echo hi","requires_admin":false,"reasoning":"r"}`)
	require.NoError(t, err)
	assert.Equal(t, "x", res.TaskName)
	assert.Equal(t, "echo hi", res.Action)
	assert.False(t, res.RequiresAdmin)
	assert.Equal(t, "r", res.Reasoning)
	assert.Equal(t, intent.SourceLLM, res.Source)
}

func TestParseIntentFencedBlock(t *testing.T) {
	raw := "```json\n{\"task_name\":\"x\",\"action\":\"echo hi\",\"requires_admin\":false}\n```"
	res, err := ParseIntent(raw)
	require.NoError(t, err)
	assert.Equal(t, "x", res.TaskName)
	assert.Equal(t, "echo hi", res.Action)
	assert.False(t, res.RequiresAdmin)
}

func TestParseIntentFenceRoundTrip(t *testing.T) {
	// Wrapping a valid object in a fence yields the same parse as the bare
	// object.
	body := `{"task_name":"t","action":"ls","requires_admin":true,"reasoning":"because"}`
	bare, err := ParseIntent(body)
	require.NoError(t, err)
	fenced, err := ParseIntent("```json\n" + body + "\n```")
	require.NoError(t, err)
	if diff := cmp.Diff(bare, fenced); diff != "" {
		t.Fatalf("fenced parse differs (-bare +fenced):\n%s", diff)
	}
}

func TestParseIntentSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the intent you asked for:\n" +
		`{"task_name":"x","action":"echo hi","requires_admin":false}` +
		"\nLet me know if you need anything else."
	res, err := ParseIntent(raw)
	require.NoError(t, err)
	assert.Equal(t, "x", res.TaskName)
}

func TestParseIntentNestedBracesInStrings(t *testing.T) {
	// Braces inside string values must not terminate the scan early.
	raw := `{"task_name":"x","action":"echo '{not a block}'","requires_admin":false,"reasoning":"user said {do it}"}`
	res, err := ParseIntent(raw)
	require.NoError(t, err)
	assert.Equal(t, "echo '{not a block}'", res.Action)
	assert.Equal(t, "user said {do it}", res.Reasoning)
}

func TestParseIntentNestedObject(t *testing.T) {
	raw := `{"task_name":"x","action":"echo hi","requires_admin":false,"meta":{"depth":{"inner":1}}}`
	res, err := ParseIntent(raw)
	require.NoError(t, err)
	assert.Equal(t, "x", res.TaskName)
}

func TestParseIntentKeyAliases(t *testing.T) {
	res, err := ParseIntent(`{"task":"x","command":"echo hi","requires_admin":true}`)
	require.NoError(t, err)
	assert.Equal(t, "x", res.TaskName)
	assert.Equal(t, "echo hi", res.Action)
	assert.True(t, res.RequiresAdmin)
}

func TestParseIntentFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I could not determine an action."},
		{"no closing brace", `{"task_name":"x","action":"a"`},
		{"missing task_name", `{"action":"a","requires_admin":false}`},
		{"missing action", `{"task_name":"x","requires_admin":false}`},
		{"missing requires_admin", `{"task_name":"x","action":"a"}`},
		{"requires_admin not bool", `{"task_name":"x","action":"a","requires_admin":"yes"}`},
		{"task_name not string", `{"task_name":7,"action":"a","requires_admin":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseIntent(tt.raw)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParseIntentSingleLineFence(t *testing.T) {
	res, err := ParseIntent("```{\"task_name\":\"x\",\"action\":\"a\",\"requires_admin\":false}```")
	require.NoError(t, err)
	assert.Equal(t, "x", res.TaskName)
}

func TestFirstJSONObjectPicksFirst(t *testing.T) {
	s := `noise {"a":1} trailing {"b":2}`
	span := firstJSONObject(s)
	var m map[string]int
	require.NoError(t, json.Unmarshal([]byte(span), &m))
	assert.Equal(t, map[string]int{"a": 1}, m)
}

func TestFirstJSONObjectEscapedQuotes(t *testing.T) {
	s := `{"a":"he said \"}\" loudly"}`
	assert.Equal(t, s, firstJSONObject(s))
}
