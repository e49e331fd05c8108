package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"igris/internal/intent"
)

// ParseIntent recovers a structured intent from raw model output.
//
// The pipeline tolerates the usual model noise: a single fenced-code
// wrapper (with optional language tag) is stripped, then the first complete
// JSON object is located with a balanced-brace scan and parsed. A non-greedy
// regex would break here - nested objects, and brace characters inside
// reasoning strings, are both common in real replies.
//
// Required keys: task_name (alias: task), action (aliases: command, run),
// requires_admin. reasoning is optional and defaults to empty. Every failure
// returns ErrParse; the parser never panics on malformed input.
func ParseIntent(raw string) (*intent.ResolvedIntent, error) {
	span := firstJSONObject(stripFence(raw))
	if span == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrParse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	taskName, ok := stringField(fields, "task_name", "task")
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrParse, "task_name")
	}
	action, ok := stringField(fields, "action", "command", "run")
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrParse, "action")
	}
	rawAdmin, ok := fields["requires_admin"]
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrParse, "requires_admin")
	}
	var requiresAdmin bool
	if err := json.Unmarshal(rawAdmin, &requiresAdmin); err != nil {
		return nil, fmt.Errorf("%w: requires_admin is not a boolean", ErrParse)
	}

	reasoning := ""
	if raw, ok := fields["reasoning"]; ok {
		// Tolerate a non-string reasoning value; it is advisory only.
		_ = json.Unmarshal(raw, &reasoning)
	}

	return &intent.ResolvedIntent{
		TaskName:      taskName,
		Action:        action,
		RequiresAdmin: requiresAdmin,
		Reasoning:     reasoning,
		Source:        intent.SourceLLM,
	}, nil
}

func stringField(fields map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		return s, true
	}
	return "", false
}

// stripFence removes one leading/trailing fenced-code wrapper if present.
// The opening fence may carry a language tag ("```json").
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the opening fence line, language tag included.
		rest = rest[nl+1:]
	} else {
		// Single-line fence: ```{...}```
		rest = strings.TrimSuffix(rest, "```")
		return strings.TrimSpace(rest)
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}

// firstJSONObject returns the first top-level {...} span in s, tracking
// brace depth and skipping braces inside JSON strings (escapes included).
// The object ends where depth returns to zero. It is safe to iterate bytes
// for ASCII delimiters: UTF-8 never embeds ASCII bytes in multi-byte runes.
func firstJSONObject(s string) string {
	var depth int
	start := -1
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
