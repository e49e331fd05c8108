// Package llm is the language-model boundary: backend clients, the prompt
// that embeds the catalogue, and the sanitizer that recovers a structured
// intent from noisy model output.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"igris/internal/logging"
)

// Sentinel errors for the orchestrator's fallback transitions.
var (
	// ErrBackend collapses every backend failure mode - unreachable,
	// non-zero exit, timeout - into one sentinel. The requester does not
	// retry; retry and fallback ordering belong to the orchestrator.
	ErrBackend = errors.New("llm backend unavailable")

	// ErrParse marks malformed or incomplete structured output.
	ErrParse = errors.New("no valid intent in model response")
)

// Backend is an external language-model service. Implementations return the
// raw completion text; they do not interpret it.
type Backend interface {
	// Complete sends a system and user prompt and returns the raw reply.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Model returns the model identifier in use.
	Model() string
}

// DefaultRequestTimeout bounds a single backend invocation.
const DefaultRequestTimeout = 60 * time.Second

// Requester wraps a Backend with the fixed invocation timeout and the
// single-sentinel failure contract.
type Requester struct {
	backend Backend
	timeout time.Duration
}

// NewRequester builds a requester. A zero timeout uses the default.
func NewRequester(backend Backend, timeout time.Duration) *Requester {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Requester{backend: backend, timeout: timeout}
}

// Model returns the underlying backend's model identifier.
func (r *Requester) Model() string {
	if r.backend == nil {
		return ""
	}
	return r.backend.Model()
}

// Request performs one bounded backend call. Any failure, including a nil
// backend, surfaces as ErrBackend with the cause wrapped for logs.
func (r *Requester) Request(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if r.backend == nil {
		return "", fmt.Errorf("%w: no backend configured", ErrBackend)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	raw, err := r.backend.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		logging.Get(logging.CategoryLLM).Warnw("backend request failed",
			"model", r.backend.Model(), "elapsed", time.Since(start), "error", err)
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}
	logging.Get(logging.CategoryLLM).Debugw("backend request complete",
		"model", r.backend.Model(), "elapsed", time.Since(start), "bytes", len(raw))
	return raw, nil
}
