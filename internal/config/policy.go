package config

import "strings"

// AuthPolicy gates privileged actions. Loaded once per session and reloaded
// only through the session's designated writer.
type AuthPolicy struct {
	// AdminPINHash is the hex SHA-256 of the admin PIN. Empty means the PIN
	// factor always rejects.
	AdminPINHash string `json:"admin_pin_hash" yaml:"admin_pin_hash"`

	// FingerprintRequired enables admin-gate enforcement. When false the
	// gate is bypassed entirely (and the bypass is logged).
	FingerprintRequired bool `json:"fingerprint_required" yaml:"fingerprint_required"`

	// EnforceOnTasks lists task names that always require admin
	// confirmation regardless of the catalogue flag.
	EnforceOnTasks []string `json:"enforce_on_tasks,omitempty" yaml:"enforce_on_tasks,omitempty"`

	// BlockedPhrases rejects requests outright before any resolution.
	BlockedPhrases []string `json:"blocked_phrases,omitempty" yaml:"blocked_phrases,omitempty"`

	// ExpectedPassphrase is matched (case-insensitive containment) against
	// the passphrase factor's transcript. Empty uses the built-in default.
	ExpectedPassphrase string `json:"expected_passphrase,omitempty" yaml:"expected_passphrase,omitempty"`
}

// DefaultExpectedPassphrase is the confirmation phrase used when the policy
// does not configure one.
const DefaultExpectedPassphrase = "yes allow this"

// Enforced reports whether taskName is on the always-enforce list.
func (p *AuthPolicy) Enforced(taskName string) bool {
	for _, t := range p.EnforceOnTasks {
		if t == taskName {
			return true
		}
	}
	return false
}

// BlockedBy returns the first blocked phrase contained (case-insensitive) in
// the raw request, or empty if none match.
func (p *AuthPolicy) BlockedBy(request string) string {
	lower := strings.ToLower(request)
	for _, phrase := range p.BlockedPhrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase
		}
	}
	return ""
}

// Passphrase returns the configured passphrase or the default.
func (p *AuthPolicy) Passphrase() string {
	if p.ExpectedPassphrase != "" {
		return p.ExpectedPassphrase
	}
	return DefaultExpectedPassphrase
}

// LoadPolicy reads the auth policy. A missing or unreadable file yields a
// zero policy (enforcement off, PIN always rejects) rather than an error, so
// a fresh install runs unauthenticated instead of failing to start.
func LoadPolicy(path string) *AuthPolicy {
	var p AuthPolicy
	if path == "" {
		return &p
	}
	if err := decodeFile(path, &p); err != nil {
		return &AuthPolicy{}
	}
	return &p
}

// SavePolicy persists the policy as JSON.
func SavePolicy(path string, p *AuthPolicy) error {
	return encodeFile(path, p)
}
