// Package dispatch executes resolved actions and classifies their outcomes.
// Two action shapes exist: a raw OS command string run through the platform
// shell, and a plugin:<name> reference resolved against the static plugin
// registry. Failed commands are represented in the result, never raised.
package dispatch

import (
	"time"
)

// Classification buckets an execution outcome for the caller.
type Classification string

const (
	ClassSuccess          Classification = "success"
	ClassSuccessEmpty     Classification = "success_empty"
	ClassPermissionDenied Classification = "permission_denied"
	ClassNotFound         Classification = "not_found"
	ClassGenericError     Classification = "generic_error"
)

// SuccessEmptyMessage is synthesized when a command exits zero with no
// output, so the caller always has something to display.
const SuccessEmptyMessage = "Command executed."

// ExecutionResult is the outcome of one dispatch. Ephemeral: produced once
// per request and not persisted (the audit ledger records a summary).
type ExecutionResult struct {
	ExitCode       int            `json:"exit_code"`
	Stdout         string         `json:"stdout"`
	Stderr         string         `json:"stderr"`
	Classification Classification `json:"classification"`

	// Message is the text to surface: stdout on success, the synthesized
	// message on empty success, stderr (unmodified) on failure.
	Message string `json:"message"`

	Duration time.Duration `json:"duration"`
}

// OK reports whether the result is one of the success classifications.
func (r *ExecutionResult) OK() bool {
	return r.Classification == ClassSuccess || r.Classification == ClassSuccessEmpty
}

// EventKind categorizes dispatcher audit events.
type EventKind string

const (
	EventShell  EventKind = "shell"
	EventPlugin EventKind = "plugin"
)

// Event is emitted after every dispatch for the audit callback.
type Event struct {
	RequestID string
	Kind      EventKind
	Action    string
	Result    *ExecutionResult
	Timestamp time.Time
}
