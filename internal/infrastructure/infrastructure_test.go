package infrastructure_test

import (
	"context"
	"testing"

	"github.com/JaimeStill/crud-generator/internal/config"
	"github.com/JaimeStill/crud-generator/internal/infrastructure"
	"github.com/JaimeStill/crud-generator/pkg/logging"
	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

func TestNew_MemorySession(t *testing.T) {
	cfg := &config.Config{Session: config.BackendMemory}

	infra, err := infrastructure.NewWithLogger(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database != nil {
		t.Error("Database initialized for memory session")
	}
	if infra.Session == nil || infra.Metrics == nil || infra.Lifecycle == nil {
		t.Fatalf("incomplete infrastructure: %+v", infra)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	def := model.Definition{
		Name:    "Note",
		Columns: []model.Column{{Name: "id", Type: model.TypeInteger, PrimaryKey: true}},
	}
	def.Normalize()
	items, err := infra.Session.All(context.Background(), def, session.Query{})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("All() = %v, want empty", items)
	}
}

func TestNew_PostgresSession(t *testing.T) {
	cfg := &config.Config{Session: config.BackendPostgres}
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "crud"
	cfg.Database.User = "crud"
	cfg.Database.ConnMaxLifetime = "1m"

	infra, err := infrastructure.NewWithLogger(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database == nil {
		t.Fatal("Database not initialized for postgres session")
	}
	if infra.Session == nil {
		t.Fatal("Session not initialized")
	}
}
