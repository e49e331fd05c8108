package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"igris/internal/config"
	"igris/internal/logging"
)

// ErrAuth is returned when every authentication factor has been exhausted.
// The guarded action must not be executed.
var ErrAuth = errors.New("admin authentication failed")

// Default PIN retry parameters.
const (
	DefaultPINAttempts = 3
	DefaultPINBackoff  = time.Second
)

// Gate is the admin authentication state machine. Factors are attempted in
// order - fingerprint, PIN, passphrase - and the first success short-circuits
// the rest. Exhausting all three returns ErrAuth.
type Gate struct {
	Fingerprint FingerprintFactor
	PIN         PINReader
	Passphrase  PassphraseRecognizer

	// PINAttempts and PINBackoff bound the PIN factor's retry loop. The
	// backoff doubles per failed attempt. Zero values take the defaults.
	PINAttempts int
	PINBackoff  time.Duration
}

// NewGate returns a gate wired to console factors.
func NewGate() *Gate {
	factors := NewConsoleFactors()
	return &Gate{Fingerprint: factors, PIN: factors, Passphrase: factors}
}

// RequiresAdmin computes the effective admin requirement for a task: the
// catalogue flag OR membership of the policy's always-enforce list.
func RequiresAdmin(catalogueFlag bool, taskName string, policy *config.AuthPolicy) bool {
	if catalogueFlag {
		return true
	}
	return policy != nil && policy.Enforced(taskName)
}

// Authorize runs the confirmation chain for a privileged task.
//
// When policy enforcement is disabled the gate is bypassed and the bypass is
// logged; callers only reach this for intents whose effective requires_admin
// is true. Each factor failure falls through to the next; a factor error
// counts as a failure of that factor, not of the gate. All three failing
// returns ErrAuth and the failure is logged with the task name.
func (g *Gate) Authorize(ctx context.Context, taskName string, policy *config.AuthPolicy) error {
	log := logging.Get(logging.CategoryAuth)

	if policy == nil || !policy.FingerprintRequired {
		log.Infow("admin gate bypassed: enforcement disabled", "task", taskName)
		return nil
	}

	if g.Fingerprint != nil {
		ok, err := g.Fingerprint.Confirm(ctx)
		if err != nil {
			log.Debugw("fingerprint factor error", "task", taskName, "error", err)
		} else if ok {
			log.Infow("admin authorized via fingerprint", "task", taskName)
			return nil
		}
	}

	if g.PIN != nil && g.tryPIN(ctx, policy) {
		log.Infow("admin authorized via PIN", "task", taskName)
		return nil
	}

	if g.Passphrase != nil {
		transcript, err := g.Passphrase.Capture(ctx)
		if err != nil {
			log.Debugw("passphrase factor error", "task", taskName, "error", err)
		} else if strings.Contains(strings.ToLower(transcript), strings.ToLower(policy.Passphrase())) {
			log.Infow("admin authorized via passphrase", "task", taskName)
			return nil
		}
	}

	log.Warnw("admin authentication failed", "task", taskName)
	return fmt.Errorf("%w: task %q", ErrAuth, taskName)
}

// tryPIN runs the bounded PIN retry loop with exponential backoff between
// failed attempts.
func (g *Gate) tryPIN(ctx context.Context, policy *config.AuthPolicy) bool {
	attempts := g.PINAttempts
	if attempts <= 0 {
		attempts = DefaultPINAttempts
	}
	backoff := g.PINBackoff
	if backoff <= 0 {
		backoff = DefaultPINBackoff
	}

	for i := 0; i < attempts; i++ {
		entered, err := g.PIN.ReadPIN(ctx)
		if err != nil {
			return false
		}
		if VerifyPIN(entered, policy.AdminPINHash) {
			return true
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff << uint(i)):
		}
	}
	return false
}
