package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"igris/internal/config"
)

func TestBuildPrompt(t *testing.T) {
	identity := config.DefaultIdentity()
	cat := &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "reboot", Phrases: []string{"reboot", "restart computer"}, Action: "shutdown /r", RequiresAdmin: true},
	}}

	systemPrompt, userPrompt := BuildPrompt(identity, "", cat, "  restart the machine  ")

	assert.Contains(t, systemPrompt, identity.Role)
	assert.Contains(t, systemPrompt, identity.BaseContext)

	assert.Contains(t, userPrompt, "Igris")
	assert.Contains(t, userPrompt, "task: reboot")
	assert.Contains(t, userPrompt, "action: shutdown /r")
	assert.Contains(t, userPrompt, "requires_admin: true")
	assert.Contains(t, userPrompt, "reboot; restart computer")
	assert.Contains(t, userPrompt, "User request: restart the machine")
	assert.Contains(t, userPrompt, "task_name")
	assert.NotContains(t, userPrompt, "  restart the machine  ")
}

func TestBuildPromptSystemPrefix(t *testing.T) {
	systemPrompt, _ := BuildPrompt(config.DefaultIdentity(), "Answer tersely.", nil, "hi")
	assert.True(t, strings.HasPrefix(systemPrompt, "Answer tersely."))
}

func TestBuildPromptEmptyCatalogue(t *testing.T) {
	_, userPrompt := BuildPrompt(config.DefaultIdentity(), "", &config.Catalogue{}, "hi")
	assert.NotContains(t, userPrompt, "Known tasks:")
}
