package llm

import (
	"fmt"
	"strings"

	"igris/internal/config"
)

// jsonInstruction pins the reply shape. Models drift toward prose and
// markdown fences without it; the sanitizer tolerates both anyway.
const jsonInstruction = `Respond ONLY with a single raw JSON object. DO NOT include code blocks, markdown, triple backticks, or explanation text.
Just output something like this:

{
  "task_name": "...",
  "action": "...",
  "requires_admin": false,
  "reasoning": "User wants to open the calculator app."
}

No extra commentary, headers, or markdown blocks.`

// BuildPrompt assembles the system and user prompts for a resolution
// request. The system prompt carries the identity block plus an optional
// caller prefix; the user prompt serializes the catalogue as task/action/
// phrases triples, states the request, and pins the JSON reply shape.
func BuildPrompt(identity config.Identity, systemPrefix string, cat *config.Catalogue, userRequest string) (systemPrompt, userPrompt string) {
	var sys strings.Builder
	if systemPrefix != "" {
		sys.WriteString(strings.TrimSpace(systemPrefix))
		sys.WriteString("\n\n")
	}
	fmt.Fprintf(&sys, "%s. %s", identity.Role, identity.BaseContext)

	var usr strings.Builder
	fmt.Fprintf(&usr, "You are %s, matching user requests to known system tasks.\n\n", identity.Name)
	if cat != nil && len(cat.Tasks) > 0 {
		usr.WriteString("Known tasks:\n")
		for _, t := range cat.Tasks {
			fmt.Fprintf(&usr, "- task: %s\n  action: %s\n  requires_admin: %t\n", t.Task, t.Action, t.RequiresAdmin)
			if len(t.Phrases) > 0 {
				fmt.Fprintf(&usr, "  phrases: %s\n", strings.Join(t.Phrases, "; "))
			}
		}
		usr.WriteString("\n")
	}
	fmt.Fprintf(&usr, "User request: %s\n\n", strings.TrimSpace(userRequest))
	usr.WriteString(jsonInstruction)

	return sys.String(), usr.String()
}
