package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	reply string
	err   error
	delay time.Duration
	calls int
}

func (s *stubBackend) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.reply, s.err
}

func (s *stubBackend) Model() string { return "stub" }

func TestRequesterSuccess(t *testing.T) {
	backend := &stubBackend{reply: "hello"}
	r := NewRequester(backend, time.Second)

	out, err := r.Request(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRequesterWrapsFailureAsBackendError(t *testing.T) {
	backend := &stubBackend{err: errors.New("connection refused")}
	r := NewRequester(backend, time.Second)

	_, err := r.Request(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrBackend)
}

func TestRequesterTimeoutIsBackendError(t *testing.T) {
	backend := &stubBackend{reply: "late", delay: 500 * time.Millisecond}
	r := NewRequester(backend, 20*time.Millisecond)

	_, err := r.Request(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrBackend)
}

func TestRequesterNoRetry(t *testing.T) {
	backend := &stubBackend{err: errors.New("boom")}
	r := NewRequester(backend, time.Second)

	_, _ = r.Request(context.Background(), "sys", "user")
	assert.Equal(t, 1, backend.calls)
}

func TestRequesterNilBackend(t *testing.T) {
	r := NewRequester(nil, time.Second)
	_, err := r.Request(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrBackend)
}
