// Command igris resolves natural-language requests into system actions:
// offline catalogue matching first, a language-model fallback second, and a
// local fuzzy recovery pass when the model's output cannot be parsed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"igris/internal/audit"
	"igris/internal/auth"
	"igris/internal/config"
	"igris/internal/dispatch"
	"igris/internal/intent"
	"igris/internal/llm"
	"igris/internal/logging"
	"igris/internal/orchestrate"
)

var (
	// Global flags
	verbose       bool
	configDir     string
	identityPath  string
	cataloguePath string
	policyPath    string
	modelOverride string
	systemPrefix  string
	timeout       time.Duration
	noLedger      bool
)

// exitCode carries the pipeline's exit status out of cobra; main applies it
// after Execute returns so deferred cleanup still runs.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "igris [request...]",
	Short: "Igris - natural language to system action",
	Long: `Igris maps free-form requests onto a catalogue of known system tasks.

Resolution is offline-first: an exact or substring phrase match executes
without any model round-trip. Unmatched requests go to the configured
language-model backend, whose reply is sanitized into a structured intent;
unparseable replies fall back to local fuzzy matching. Privileged tasks pass
through the admin gate before anything runs.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runRequest(cmd, args)
	},
}

var runCmd = &cobra.Command{
	Use:   "run [request...]",
	Short: "Resolve and execute a single request",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRequest,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultConfigDir, "configuration directory")
	rootCmd.PersistentFlags().StringVar(&identityPath, "identity", "", "identity file (default <config-dir>/"+config.DefaultIdentityFile+")")
	rootCmd.PersistentFlags().StringVar(&cataloguePath, "catalogue", "", "task catalogue file (default <config-dir>/"+config.DefaultCatalogueFile+")")
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "auth policy file (default <config-dir>/"+config.DefaultPolicyFile+")")
	rootCmd.PersistentFlags().StringVarP(&modelOverride, "model", "m", "", "model tag override")
	rootCmd.PersistentFlags().StringVar(&systemPrefix, "system", "", "extra system-prompt prefix")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", llm.DefaultRequestTimeout, "model request timeout")
	rootCmd.PersistentFlags().BoolVar(&noLedger, "no-ledger", false, "disable the audit ledger")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(auditCmd)
}

// resolvePaths fills unset file flags from the config directory.
func resolvePaths() {
	if identityPath == "" {
		identityPath = filepath.Join(configDir, config.DefaultIdentityFile)
	}
	if cataloguePath == "" {
		cataloguePath = filepath.Join(configDir, config.DefaultCatalogueFile)
	}
	if policyPath == "" {
		policyPath = filepath.Join(configDir, config.DefaultPolicyFile)
	}
}

// pipeline bundles the wired components for one process.
type pipeline struct {
	session      *orchestrate.Session
	store        *intent.CatalogueStore
	orchestrator *orchestrate.Orchestrator
	ledger       *audit.Ledger
}

func (p *pipeline) close() {
	p.store.Close()
	if p.ledger != nil {
		_ = p.ledger.Close()
	}
}

// buildPipeline wires session, catalogue store, backend, gate, dispatcher,
// and ledger into an orchestrator.
func buildPipeline(ctx context.Context) *pipeline {
	resolvePaths()

	session := orchestrate.NewSession(identityPath, policyPath)
	store := intent.NewCatalogueStore(cataloguePath)

	model := llm.ResolveModel(modelOverride, session.Identity)
	backend := buildBackend(ctx, model)

	registry := dispatch.NewRegistry()
	dispatch.RegisterBuiltins(registry, store)
	dispatcher := dispatch.NewDispatcher(registry)

	var ledger *audit.Ledger
	if !noLedger {
		var err error
		ledger, err = audit.Open(filepath.Join(configDir, "audit.db"))
		if err != nil {
			logging.Get(logging.CategoryAudit).Warnw("audit ledger unavailable", "error", err)
			ledger = nil
		}
	}
	if ledger != nil {
		l := ledger
		dispatcher.AuditCallback = func(ev dispatch.Event) {
			l.Record(audit.Entry{
				Timestamp: ev.Timestamp,
				RequestID: ev.RequestID,
				Kind:      audit.KindDispatch,
				Action:    ev.Action,
				Outcome:   string(ev.Result.Classification),
				Detail:    fmt.Sprintf("exit=%d", ev.Result.ExitCode),
			})
		}
	}

	return &pipeline{
		session: session,
		store:   store,
		ledger:  ledger,
		orchestrator: &orchestrate.Orchestrator{
			Store:        store,
			Requester:    llm.NewRequester(backend, timeout),
			Gate:         auth.NewGate(),
			Dispatcher:   dispatcher,
			SystemPrefix: systemPrefix,
			Ledger:       ledger,
		},
	}
}

// buildBackend picks the model backend: Gemini when an API key is present
// and the model tag asks for it, local Ollama otherwise.
func buildBackend(ctx context.Context, model string) llm.Backend {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && strings.HasPrefix(model, "gemini") {
		client, err := llm.NewGeminiClient(ctx, key, model)
		if err == nil {
			return client
		}
		logging.Get(logging.CategoryLLM).Warnw("Gemini backend unavailable; using Ollama", "error", err)
	}
	return llm.NewOllamaClient(model)
}

func runRequest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := buildPipeline(ctx)
	defer p.close()

	request := strings.Join(args, " ")
	outcome := p.orchestrator.Handle(ctx, p.session, request)
	exitCode = outcome.ExitCode

	if outcome.Intent != nil {
		fmt.Printf("[%s] %s (%s)\n", outcome.Intent.Source, outcome.Intent.TaskName, outcome.Intent.Reasoning)
	}
	if outcome.Message != "" {
		fmt.Println(outcome.Message)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if exitCode == 0 {
			exitCode = orchestrate.ExitError
		}
	}
	os.Exit(exitCode)
}
