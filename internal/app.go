// Package internal provides the App struct that wires all components of the
// praxis workflow engine together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/internal/cli"
	"github.com/praxiskit/praxis/internal/core"
	"github.com/praxiskit/praxis/internal/observability"
	"github.com/praxiskit/praxis/internal/storage"
	"github.com/praxiskit/praxis/pkg/models"
)

// App holds all service dependencies for the praxis system.
type App struct {
	BasePath string
	Config   *models.GlobalConfig

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Reference data
	Catalog catalog.Catalog

	// Storage layer
	SessionStore   storage.SessionStore
	KnowledgeStore storage.KnowledgeStore

	// Core services
	Compiler core.PromptCompiler
	Ranker   core.ContextRanker
	Tracker  core.ContinuityTracker
	Scorer   core.QualityScorer
	Engine   core.Orchestrator

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of the praxis system. basePath is
// the root directory where all data is stored (typically the directory
// containing .praxisrc).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(globalCfg); err != nil {
		return nil, err
	}
	app.Config = globalCfg

	// --- Reference data ---
	app.Catalog = catalog.NewCatalog()

	// --- Storage layer ---
	app.SessionStore = storage.NewSessionStoreWithPrefixes(basePath, globalCfg.SessionIDPrefix, globalCfg.TransitionIDPrefix)
	_ = app.SessionStore.Load() // Non-fatal: empty store on first use.
	app.KnowledgeStore = storage.NewKnowledgeStore(basePath)
	_ = app.KnowledgeStore.Load() // Non-fatal: empty store on first use.

	// --- Observability ---
	if !globalCfg.ObservabilityOff {
		eventLogPath := filepath.Join(basePath, ".praxis_events.jsonl")
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: disable observability if log can't be created.
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, observability.DefaultAlertThresholds())
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if globalCfg.SlackWebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(globalCfg.SlackWebhookURL)
	}

	// --- Core services ---
	app.Compiler = core.NewPromptCompiler()
	app.Ranker = core.NewContextRanker(app.Catalog)
	app.Tracker = core.NewContinuityTracker(app.SessionStore, app.Catalog, app.EventLog)
	app.Scorer = core.NewQualityScorer()
	app.Engine = core.NewOrchestrator(
		app.Catalog,
		app.KnowledgeStore,
		app.Ranker,
		app.Tracker,
		app.Compiler,
		app.Scorer,
		app.EventLog,
		globalCfg,
	)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = app.Config
	cli.Catalog = app.Catalog
	cli.Compiler = app.Compiler
	cli.Ranker = app.Ranker
	cli.Tracker = app.Tracker
	cli.Scorer = app.Scorer
	cli.Engine = app.Engine
	cli.SessionStore = app.SessionStore
	cli.KnowledgeStore = app.KnowledgeStore

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the praxis data directory.
// It checks for PRAXIS_HOME env var, then walks up from the current directory
// looking for a .praxisrc file.
func ResolveBasePath() string {
	if home := os.Getenv("PRAXIS_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	// Walk up to find a directory containing .praxisrc.yaml.
	for {
		if _, err := os.Stat(filepath.Join(dir, ".praxisrc.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// Fall back to cwd.
	cwd, _ := os.Getwd()
	return cwd
}
