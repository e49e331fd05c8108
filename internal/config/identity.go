package config

// Identity describes the assistant persona embedded in every model prompt.
type Identity struct {
	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role" yaml:"role"`
	BaseContext string `json:"base_context" yaml:"base_context"`

	// DefaultModel may live top-level or under model_settings; both layouts
	// exist in deployed identity files.
	DefaultModel  string         `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	ModelSettings *ModelSettings `json:"model_settings,omitempty" yaml:"model_settings,omitempty"`

	// FallbackBehavior optionally configures a canned reply when resolution
	// produces nothing actionable.
	FallbackBehavior *FallbackBehavior `json:"fallback_behavior,omitempty" yaml:"fallback_behavior,omitempty"`
}

// ModelSettings is the nested model configuration block.
type ModelSettings struct {
	DefaultModel string `json:"default_model,omitempty" yaml:"default_model,omitempty"`
}

// FallbackBehavior configures terminal no-match messaging.
type FallbackBehavior struct {
	OnNoMatch string `json:"on_no_match,omitempty" yaml:"on_no_match,omitempty"`
}

// DefaultIdentity returns the built-in persona used when no identity file is
// present or a file is partial.
func DefaultIdentity() Identity {
	return Identity{
		Name: "Igris",
		Role: "Hyper-intelligent system control assistant",
		BaseContext: "Act as Igris, a state-of-the-art AI operating system in development, " +
			"designed to serve as a hyper-intelligent, fully-integrated computer tech assistant. " +
			"Your tone is bold, efficient, and precise.",
	}
}

// ConfiguredModel returns the identity's preferred model tag, checking the
// top-level field before the nested model_settings block.
func (id Identity) ConfiguredModel() string {
	if id.DefaultModel != "" {
		return id.DefaultModel
	}
	if id.ModelSettings != nil {
		return id.ModelSettings.DefaultModel
	}
	return ""
}

// LoadIdentity reads an identity file and merges it over the defaults.
// A missing or malformed file yields the defaults; loading never fails.
func LoadIdentity(path string) Identity {
	base := DefaultIdentity()
	if path == "" {
		return base
	}
	var loaded Identity
	if err := decodeFile(path, &loaded); err != nil {
		return base
	}
	if loaded.Name != "" {
		base.Name = loaded.Name
	}
	if loaded.Role != "" {
		base.Role = loaded.Role
	}
	if loaded.BaseContext != "" {
		base.BaseContext = loaded.BaseContext
	}
	base.DefaultModel = loaded.DefaultModel
	base.ModelSettings = loaded.ModelSettings
	base.FallbackBehavior = loaded.FallbackBehavior
	return base
}
