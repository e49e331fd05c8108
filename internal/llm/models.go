package llm

import (
	"os"

	"igris/internal/config"
)

// ModelEnvVar overrides the default model when no explicit override or
// identity-configured model applies.
const ModelEnvVar = "IGRIS_DEFAULT_MODEL"

// FallbackModel is the hard-coded final fallback: a small instruct model
// that runs on resource-constrained hosts.
const FallbackModel = "hf.co/bartowski/Llama-3.2-1B-Instruct-GGUF:Q5_K_M"

// ResolveModel determines which model tag to use.
//
// Precedence: explicit caller override, then the identity's configured
// default (top-level or under model_settings), then the environment, then
// the hard-coded fallback.
func ResolveModel(override string, identity config.Identity) string {
	if override != "" {
		return override
	}
	if m := identity.ConfiguredModel(); m != "" {
		return m
	}
	if m := os.Getenv(ModelEnvVar); m != "" {
		return m
	}
	return FallbackModel
}
