package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"igris/internal/logging"
)

// ShellConfig bounds shell execution.
type ShellConfig struct {
	// Timeout caps a single command. Zero means no dispatcher-imposed bound
	// beyond the caller's context.
	Timeout time.Duration

	// MaxOutputBytes caps captured stdout and stderr individually.
	MaxOutputBytes int64
}

// DefaultShellConfig returns sensible defaults.
func DefaultShellConfig() ShellConfig {
	return ShellConfig{
		Timeout:        60 * time.Second,
		MaxOutputBytes: 1 << 20, // 1MB
	}
}

// ShellExecutor runs raw action strings through the platform shell.
//
// Security caveat, carried forward deliberately: actions may be composed
// from partially user-controlled text, and full-shell interpretation is a
// command-injection surface. Catalogue actions are operator-authored and
// trusted; anything untrusted must be passed as an argument vector instead
// (the plugin and builtin paths already are).
type ShellExecutor struct {
	config ShellConfig
}

// NewShellExecutor creates a shell executor with default config.
func NewShellExecutor() *ShellExecutor {
	return NewShellExecutorWithConfig(DefaultShellConfig())
}

// NewShellExecutorWithConfig creates a shell executor with custom config.
func NewShellExecutorWithConfig(config ShellConfig) *ShellExecutor {
	if config.MaxOutputBytes <= 0 {
		config.MaxOutputBytes = DefaultShellConfig().MaxOutputBytes
	}
	return &ShellExecutor{config: config}
}

// Execute runs the action and classifies the outcome. Command failure is
// never an error return: the result carries the classification, and the
// error slot is reserved for infrastructure faults that produced no result.
func (e *ShellExecutor) Execute(ctx context.Context, action string) *ExecutionResult {
	log := logging.Get(logging.CategoryDispatch)
	log.Debugw("executing shell action", "action", action)

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	bin, args := shellArgs(action)
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdoutBuf, max: e.config.MaxOutputBytes}
	cmd.Stderr = &limitedWriter{w: &stderrBuf, max: e.config.MaxOutputBytes}

	start := time.Now()
	err := cmd.Run()
	result := &ExecutionResult{
		ExitCode: 0,
		Stdout:   strings.TrimSpace(stdoutBuf.String()),
		Stderr:   strings.TrimSpace(stderrBuf.String()),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrNotFound):
			// The shell binary itself is missing; treat as launch failure.
			result.ExitCode = -1
			result.Classification = ClassNotFound
			result.Message = err.Error()
			return result
		default:
			result.ExitCode = -1
			result.Classification = ClassGenericError
			result.Message = err.Error()
			return result
		}
	}

	classify(result)
	log.Debugw("shell action complete",
		"exit", result.ExitCode, "class", result.Classification, "duration", result.Duration)
	return result
}

// classify applies the outcome rules to a completed command:
// exit 0 with stdout is success; exit 0 without stdout is success_empty with
// a synthesized message; exit 1 with the platform's access-denied marker in
// stderr is permission_denied; the shell's not-found exit is not_found;
// anything else non-zero is generic_error.
func classify(r *ExecutionResult) {
	switch {
	case r.ExitCode == 0 && r.Stdout != "":
		r.Classification = ClassSuccess
		r.Message = r.Stdout
	case r.ExitCode == 0:
		r.Classification = ClassSuccessEmpty
		r.Message = SuccessEmptyMessage
	case r.ExitCode == 1 && containsFold(r.Stderr, accessDeniedMarker):
		r.Classification = ClassPermissionDenied
		r.Message = r.Stderr
	case r.ExitCode == notFoundExitCode:
		r.Classification = ClassNotFound
		r.Message = r.Stderr
	default:
		r.Classification = ClassGenericError
		if r.Stderr != "" {
			r.Message = r.Stderr
		} else {
			r.Message = r.Stdout
		}
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// limitedWriter caps total bytes written, discarding the overflow while
// reporting full writes so the child process never sees a short write.
type limitedWriter struct {
	w       io.Writer
	max     int64
	written int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		return n, nil
	}
	remaining := lw.max - lw.written
	if int64(n) > remaining {
		p = p[:remaining]
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return n, err
}
