// Package logging provides category-named zap loggers for the Igris pipeline.
// Each subsystem logs under its own named logger so a single run can be
// filtered by stage (intent, llm, auth, dispatch, orchestrate, audit).
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a pipeline subsystem.
type Category string

const (
	CategoryBoot        Category = "boot"
	CategoryIntent      Category = "intent"      // Normalization, offline and fuzzy matching
	CategoryCatalogue   Category = "catalogue"   // Catalogue loading and hot reload
	CategoryLLM         Category = "llm"         // Backend requests and parsing
	CategoryAuth        Category = "auth"        // Admin gate decisions
	CategoryDispatch    Category = "dispatch"    // Command and plugin execution
	CategoryOrchestrate Category = "orchestrate" // Fallback state machine transitions
	CategoryAudit       Category = "audit"       // Ledger writes
	CategorySession     Category = "session"     // Identity and policy lifecycle
)

var (
	mu      sync.RWMutex
	root    *zap.Logger
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize builds the process-wide root logger. Verbose switches the level
// to debug. Safe to call more than once; the last call wins.
func Initialize(verbose bool) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Replace(logger)
	return nil
}

// Replace swaps the root logger. Used by tests to install zap.NewNop or an
// observed core.
func Replace(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	root = logger
	loggers = make(map[Category]*zap.SugaredLogger)
}

// Get returns the sugared logger for a category, creating it on first use.
func Get(cat Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	if root == nil {
		root = zap.NewNop()
	}
	l := root.Named(string(cat)).Sugar()
	loggers[cat] = l
	return l
}

// Sync flushes buffered log entries. Best effort.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}
