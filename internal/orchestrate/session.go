// Package orchestrate drives a request through the resolution pipeline:
// offline match, model fallback, fuzzy recovery, admin gate, dispatch. It
// owns the per-process session state shared across requests.
package orchestrate

import (
	"sync"

	"igris/internal/config"
	"igris/internal/logging"
)

// Session holds the state that outlives a single request: the loaded
// identity and the auth policy. The policy is read once at startup and
// changes only through ReloadPolicy or SavePolicy, making the session the
// designated writer; nothing else in the process mutates it.
type Session struct {
	Identity config.Identity

	mu         sync.RWMutex
	policy     *config.AuthPolicy
	policyPath string
}

// NewSession loads identity and policy from their configured paths. Both
// loaders degrade to defaults, so session construction cannot fail.
func NewSession(identityPath, policyPath string) *Session {
	return &Session{
		Identity:   config.LoadIdentity(identityPath),
		policy:     config.LoadPolicy(policyPath),
		policyPath: policyPath,
	}
}

// Policy returns the current auth policy snapshot.
func (s *Session) Policy() *config.AuthPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// ReloadPolicy re-reads the policy from disk and swaps it in.
func (s *Session) ReloadPolicy() *config.AuthPolicy {
	p := config.LoadPolicy(s.policyPath)
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
	logging.Get(logging.CategorySession).Infow("auth policy reloaded", "path", s.policyPath)
	return p
}

// SavePolicy persists a new policy and makes it current.
func (s *Session) SavePolicy(p *config.AuthPolicy) error {
	if err := config.SavePolicy(s.policyPath, p); err != nil {
		return err
	}
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
	return nil
}
