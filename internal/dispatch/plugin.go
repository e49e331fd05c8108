package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"igris/internal/logging"
)

// Plugin registry errors.
var (
	ErrPluginNotFound          = errors.New("plugin not found")
	ErrPluginAlreadyRegistered = errors.New("plugin already registered")
)

// Runnable is the minimal plugin entrypoint: no inputs, a string result.
type Runnable interface {
	Run() (string, error)
}

// ArgsRunnable accepts positional arguments.
type ArgsRunnable interface {
	RunArgs(args []string) (string, error)
}

// ContextRunnable accepts the full invocation context plus arguments.
type ContextRunnable interface {
	RunContext(ctx context.Context, args []string) (string, error)
}

// Plugin is a named automation unit. The implementation may satisfy any of
// the three Runnable shapes; invocation tries the richest first.
type Plugin struct {
	Name        string
	Description string
	Impl        any
}

// Validate checks the plugin is invocable.
func (p *Plugin) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	switch p.Impl.(type) {
	case ContextRunnable, ArgsRunnable, Runnable:
		return nil
	}
	return fmt.Errorf("plugin %s implements no Runnable interface", p.Name)
}

// Registry holds statically registered plugins. Dynamic loading by filename
// is deliberately unsupported: the registry is the fix for the arbitrary
// code execution risk that came with importing plugin files at runtime.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]*Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]*Plugin)}
}

// Register adds a plugin. Duplicate names are rejected.
func (r *Registry) Register(p *Plugin) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid plugin: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[p.Name]; exists {
		return fmt.Errorf("%w: %s", ErrPluginAlreadyRegistered, p.Name)
	}
	r.plugins[p.Name] = p
	logging.Get(logging.CategoryDispatch).Debugw("registered plugin", "name", p.Name)
	return nil
}

// MustRegister registers a plugin and panics on error. For static
// registration at startup.
func (r *Registry) MustRegister(p *Plugin) {
	if err := r.Register(p); err != nil {
		panic(fmt.Sprintf("failed to register plugin %s: %v", p.Name, err))
	}
}

// Get returns a plugin by name, or nil.
func (r *Registry) Get(name string) *Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins[name]
}

// Names returns registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered plugins in name order.
func (r *Registry) All() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke runs a plugin through the arity-fallback ladder: full context and
// arguments, then arguments only, then bare. Console output produced during
// the call is captured and concatenated with the plugin's direct return
// value, so print-style plugins and return-style plugins both surface text.
func (r *Registry) Invoke(ctx context.Context, name string, args []string) (string, error) {
	plugin := r.Get(name)
	if plugin == nil {
		return "", fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	logging.Get(logging.CategoryDispatch).Debugw("invoking plugin", "name", name, "args", args)

	var direct string
	captured, err := captureStdout(func() error {
		var callErr error
		switch impl := plugin.Impl.(type) {
		case ContextRunnable:
			direct, callErr = impl.RunContext(ctx, args)
		case ArgsRunnable:
			direct, callErr = impl.RunArgs(args)
		case Runnable:
			direct, callErr = impl.Run()
		default:
			callErr = fmt.Errorf("plugin %s implements no Runnable interface", name)
		}
		return callErr
	})
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 2)
	if captured = strings.TrimSpace(captured); captured != "" {
		parts = append(parts, captured)
	}
	if direct = strings.TrimSpace(direct); direct != "" {
		parts = append(parts, direct)
	}
	return strings.Join(parts, "\n"), nil
}

// stdoutMu serializes stdout swaps; concurrent captures would interleave.
var stdoutMu sync.Mutex

// captureStdout redirects os.Stdout for the duration of fn and returns what
// was written. The swap is process-global, hence the mutex.
func captureStdout(fn func() error) (string, error) {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()

	reader, writer, err := os.Pipe()
	if err != nil {
		// No capture available; run the plugin anyway.
		return "", fn()
	}
	orig := os.Stdout
	os.Stdout = writer

	outCh := make(chan string, 1)
	go func() {
		var b strings.Builder
		buf := make([]byte, 4096)
		for {
			n, readErr := reader.Read(buf)
			if n > 0 {
				b.Write(buf[:n])
			}
			if readErr != nil {
				break
			}
		}
		outCh <- b.String()
	}()

	fnErr := fn()

	os.Stdout = orig
	_ = writer.Close()
	captured := <-outCh
	_ = reader.Close()

	return captured, fnErr
}
