// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies every generated route group requires.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/crud-generator/internal/config"
	"github.com/JaimeStill/crud-generator/pkg/database"
	"github.com/JaimeStill/crud-generator/pkg/lifecycle"
	"github.com/JaimeStill/crud-generator/pkg/logging"
	"github.com/JaimeStill/crud-generator/pkg/metrics"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "crudgen"

// Infrastructure holds the core systems required by the generated routes.
// Database is nil when the memory session backend is selected.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Session   session.System
	Metrics   *metrics.Metrics
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, logging.New(&cfg.Logging))
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Metrics:   metrics.New(MetricsNamespace),
	}

	switch cfg.Session {
	case config.BackendMemory:
		infra.Session = session.NewMemory()
	default:
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
		infra.Session = session.NewSQL(db.Connection(), logger)
	}

	logger.Info("infrastructure initialized", "session", cfg.Session)
	return infra, nil
}

// Start registers the infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database == nil {
		return nil
	}
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
