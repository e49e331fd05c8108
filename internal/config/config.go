// Package config holds the structured documents the pipeline reads: the
// assistant identity, the task catalogue, and the authentication policy.
// Documents are JSON by default; YAML is accepted by file extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default file names, resolved relative to the config directory.
const (
	DefaultConfigDir     = "ai_assistant_config"
	DefaultIdentityFile  = "assistant_identity.json"
	DefaultCatalogueFile = "task_intents.json"
	DefaultPolicyFile    = "ai_script_policy.json"
)

// decodeFile unmarshals a JSON or YAML document based on file extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

// encodeFile writes v as indented JSON (the on-disk interchange format).
func encodeFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// FirstExisting returns the first path that exists, or empty.
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
