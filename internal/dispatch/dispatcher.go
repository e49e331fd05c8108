package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"igris/internal/logging"
)

// PluginPrefix marks an action as a plugin reference rather than a shell
// command. Everything after the prefix is the plugin name plus optional
// space-separated arguments.
const PluginPrefix = "plugin:"

// Dispatcher routes a resolved action to the shell executor or the plugin
// registry and classifies the outcome. It never raises on failed commands;
// failure lives in the result.
type Dispatcher struct {
	shell    *ShellExecutor
	registry *Registry

	// AuditCallback, when set, receives an event per dispatch.
	AuditCallback func(Event)
}

// NewDispatcher builds a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Dispatcher{shell: NewShellExecutor(), registry: registry}
}

// NewDispatcherWithShell overrides the shell executor (tests use short
// timeouts).
func NewDispatcherWithShell(registry *Registry, shell *ShellExecutor) *Dispatcher {
	d := NewDispatcher(registry)
	if shell != nil {
		d.shell = shell
	}
	return d
}

// Registry exposes the plugin registry for registration at startup.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch executes an action string. plugin:<name> [args...] goes to the
// registry; anything else is run through the platform shell.
func (d *Dispatcher) Dispatch(ctx context.Context, action string) *ExecutionResult {
	action = strings.TrimSpace(action)
	kind := EventShell

	var result *ExecutionResult
	if strings.HasPrefix(action, PluginPrefix) {
		kind = EventPlugin
		result = d.dispatchPlugin(ctx, action)
	} else {
		result = d.shell.Execute(ctx, action)
	}

	d.emit(Event{
		RequestID: uuid.NewString(),
		Kind:      kind,
		Action:    action,
		Result:    result,
		Timestamp: time.Now(),
	})
	return result
}

// dispatchPlugin resolves and invokes a plugin reference, mapping the
// outcome onto the shell classification buckets.
func (d *Dispatcher) dispatchPlugin(ctx context.Context, action string) *ExecutionResult {
	ref := strings.TrimSpace(strings.TrimPrefix(action, PluginPrefix))
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return &ExecutionResult{
			ExitCode:       1,
			Classification: ClassNotFound,
			Message:        "empty plugin reference",
		}
	}
	name, args := fields[0], fields[1:]

	start := time.Now()
	output, err := d.registry.Invoke(ctx, name, args)
	result := &ExecutionResult{Duration: time.Since(start)}

	switch {
	case errors.Is(err, ErrPluginNotFound):
		result.ExitCode = 1
		result.Classification = ClassNotFound
		result.Message = err.Error()
	case err != nil:
		result.ExitCode = 1
		result.Stderr = err.Error()
		result.Classification = ClassGenericError
		result.Message = err.Error()
	case output == "":
		result.Classification = ClassSuccessEmpty
		result.Message = SuccessEmptyMessage
	default:
		result.Stdout = output
		result.Classification = ClassSuccess
		result.Message = output
	}
	return result
}

func (d *Dispatcher) emit(ev Event) {
	if d.AuditCallback == nil {
		return
	}
	// Audit is best effort; a panicking callback must not take down the
	// dispatch path.
	defer func() {
		if r := recover(); r != nil {
			logging.Get(logging.CategoryDispatch).Warnw("audit callback panicked", "panic", r)
		}
	}()
	d.AuditCallback(ev)
}
