package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"igris/internal/audit"
	"igris/internal/auth"
	"igris/internal/config"
	"igris/internal/dispatch"
	"igris/internal/intent"
	"igris/internal/llm"
	"igris/internal/logging"
)

// FailReason is the terminal failure classification of a request.
type FailReason string

const (
	FailNone               FailReason = ""
	FailEmptyInput         FailReason = "empty_input"
	FailBlocked            FailReason = "blocked"
	FailNoMatch            FailReason = "no_match"
	FailBackendUnavailable FailReason = "backend_unavailable"
	FailAuthFailed         FailReason = "auth_failed"
)

// Process exit codes surfaced by the CLI.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitNoMatch     = 2
	ExitAuthFailed  = 3
	ExitBackendDown = 4
)

// Outcome is the terminal state of one request.
type Outcome struct {
	// Intent is the resolved intent, nil when resolution failed.
	Intent *intent.ResolvedIntent

	// Result is the dispatch result, nil when nothing was executed.
	Result *dispatch.ExecutionResult

	// Fail names the failure path taken, or FailNone on success.
	Fail FailReason

	// Message is the user-facing summary line.
	Message string

	// ExitCode is the process exit code for this outcome.
	ExitCode int
}

// Orchestrator wires the resolution stages together and runs the fallback
// ordering: offline match first, then the model, then fuzzy recovery of
// unparseable model output. A backend failure retries the offline match once
// before giving up, so a dead backend degrades to local-only resolution
// instead of a hard stop.
type Orchestrator struct {
	Store      *intent.CatalogueStore
	Requester  *llm.Requester
	Gate       *auth.Gate
	Dispatcher *dispatch.Dispatcher

	// SystemPrefix is prepended to the model's system prompt when set.
	SystemPrefix string

	// FuzzyThreshold overrides the fuzzy-match ratio floor. Zero uses the
	// default.
	FuzzyThreshold float64

	// Ledger, when set, records auth decisions and blocked requests.
	Ledger *audit.Ledger
}

// Handle runs one request end to end: resolve, gate, execute.
func (o *Orchestrator) Handle(ctx context.Context, session *Session, request string) *Outcome {
	log := logging.Get(logging.CategoryOrchestrate)
	request = strings.TrimSpace(request)
	if request == "" {
		return &Outcome{
			Fail:     FailEmptyInput,
			Message:  "Empty request.",
			ExitCode: ExitError,
		}
	}

	policy := session.Policy()
	if phrase := policy.BlockedBy(request); phrase != "" {
		log.Warnw("request blocked by policy", "phrase", phrase)
		o.record(audit.Entry{
			Kind:    audit.KindBlocked,
			Action:  request,
			Outcome: "rejected",
			Detail:  fmt.Sprintf("blocked phrase: %s", phrase),
		})
		return &Outcome{
			Fail:     FailBlocked,
			Message:  "Request refused by policy.",
			ExitCode: ExitError,
		}
	}

	cat, err := o.Store.Load()
	if err != nil {
		log.Warnw("catalogue unavailable", "error", err)
		cat = &config.Catalogue{}
	}

	resolved, fail := o.resolve(ctx, session, cat, request)
	if fail != FailNone {
		return o.failOutcome(session, fail)
	}
	log.Infow("intent resolved",
		"task", resolved.TaskName, "source", resolved.Source, "reasoning", resolved.Reasoning)

	if auth.RequiresAdmin(resolved.RequiresAdmin, resolved.TaskName, policy) {
		if err := o.Gate.Authorize(ctx, resolved.TaskName, policy); err != nil {
			o.record(audit.Entry{
				Kind:    audit.KindAuth,
				Task:    resolved.TaskName,
				Action:  resolved.Action,
				Outcome: "denied",
			})
			return &Outcome{
				Intent:   resolved,
				Fail:     FailAuthFailed,
				Message:  "Admin authentication failed. Action not executed.",
				ExitCode: ExitAuthFailed,
			}
		}
		o.record(audit.Entry{
			Kind:    audit.KindAuth,
			Task:    resolved.TaskName,
			Action:  resolved.Action,
			Outcome: "granted",
		})
	}

	if strings.TrimSpace(resolved.Action) == "" {
		return &Outcome{
			Intent:   resolved,
			Fail:     FailNoMatch,
			Message:  "Resolved intent carries no actionable command.",
			ExitCode: ExitNoMatch,
		}
	}

	result := o.Dispatcher.Dispatch(ctx, resolved.Action)
	return &Outcome{
		Intent:   resolved,
		Result:   result,
		Message:  result.Message,
		ExitCode: exitFor(result),
	}
}

// resolve walks the fallback ordering and returns either a resolved intent
// or the terminal failure reason.
func (o *Orchestrator) resolve(ctx context.Context, session *Session, cat *config.Catalogue, request string) (*intent.ResolvedIntent, FailReason) {
	log := logging.Get(logging.CategoryOrchestrate)

	if res := intent.Match(request, cat); res != nil {
		return res, FailNone
	}

	systemPrompt, userPrompt := llm.BuildPrompt(session.Identity, o.SystemPrefix, cat, request)
	raw, err := o.Requester.Request(ctx, systemPrompt, userPrompt)
	if err != nil {
		// The offline matcher already failed once, but the catalogue may
		// have changed while the backend call was in flight.
		log.Warnw("backend unavailable; retrying offline match", "error", err)
		if retryCat, loadErr := o.Store.Load(); loadErr == nil {
			cat = retryCat
		}
		if res := intent.Match(request, cat); res != nil {
			return res, FailNone
		}
		return nil, FailBackendUnavailable
	}

	res, err := llm.ParseIntent(raw)
	if err != nil {
		if !errors.Is(err, llm.ErrParse) {
			log.Warnw("unexpected parse failure", "error", err)
		}
		log.Infow("model output unparseable; trying fuzzy match")
		threshold := o.FuzzyThreshold
		if threshold <= 0 {
			threshold = intent.DefaultFuzzyThreshold
		}
		if res := intent.FuzzyMatch(request, cat, threshold); res != nil {
			return res, FailNone
		}
		return nil, FailNoMatch
	}
	return res, FailNone
}

// failOutcome renders a terminal failure, honoring the identity's configured
// no-match reply when one exists.
func (o *Orchestrator) failOutcome(session *Session, fail FailReason) *Outcome {
	out := &Outcome{Fail: fail}
	switch fail {
	case FailBackendUnavailable:
		out.Message = "Model backend unavailable and no local match found."
		out.ExitCode = ExitBackendDown
	case FailNoMatch:
		out.Message = "No matching task found."
		out.ExitCode = ExitNoMatch
		if fb := session.Identity.FallbackBehavior; fb != nil && fb.OnNoMatch != "" {
			out.Message = fb.OnNoMatch
		}
	default:
		out.Message = "Request failed."
		out.ExitCode = ExitError
	}
	return out
}

// exitFor maps a dispatch classification to a process exit code.
func exitFor(r *dispatch.ExecutionResult) int {
	if r.OK() {
		return ExitOK
	}
	return ExitError
}

func (o *Orchestrator) record(e audit.Entry) {
	if o.Ledger == nil {
		return
	}
	o.Ledger.Record(e)
}
