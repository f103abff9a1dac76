package cli

import (
	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/internal/core"
	"github.com/praxiskit/praxis/internal/observability"
	"github.com/praxiskit/praxis/internal/storage"
	"github.com/praxiskit/praxis/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Config   *models.GlobalConfig

	Catalog  catalog.Catalog
	Compiler core.PromptCompiler
	Ranker   core.ContextRanker
	Tracker  core.ContinuityTracker
	Scorer   core.QualityScorer
	Engine   core.Orchestrator

	SessionStore   storage.SessionStore
	KnowledgeStore storage.KnowledgeStore
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
