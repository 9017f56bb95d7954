package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/crud-generator/internal/config"
	"github.com/JaimeStill/crud-generator/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const baseConfig = `session = "memory"
shutdown_timeout = "10s"

[server]
port = 8081

[api]
base_path = "/v1"

[web]
template_dir = "tmpl"

[[models]]
name = "Book"
forms = true

  [[models.columns]]
  name = "id"
  type = "integer"
  primary_key = true

  [[models.columns]]
  name = "title"
  type = "text"
  required = true

  [models.list]
  keys = ["title"]
`

func TestLoadFile(t *testing.T) {
	t.Setenv(config.EnvServiceEnv, "")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", baseConfig)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("Server.Port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8081" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.ShutdownTimeoutDuration() != 10*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v, want 10s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.API.Prefix("book") != "/v1/book" {
		t.Errorf("API.Prefix() = %q, want /v1/book", cfg.API.Prefix("book"))
	}
	if cfg.Web.TemplateDir != "tmpl" {
		t.Errorf("Web.TemplateDir = %q, want tmpl", cfg.Web.TemplateDir)
	}
	if len(cfg.Models) != 1 || !cfg.Models[0].Forms {
		t.Fatalf("Models = %+v", cfg.Models)
	}
	if diff := cmp.Diff([]string{"title"}, cfg.Models[0].List.Keys); diff != "" {
		t.Errorf("List.Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", baseConfig)
	writeFile(t, dir, "config.staging.toml", `shutdown_timeout = "60s"

[server]
host = "127.0.0.1"

[logging]
level = "debug"
`)
	t.Setenv(config.EnvServiceEnv, "staging")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.ShutdownTimeout != "60s" {
		t.Errorf("ShutdownTimeout = %q, want 60s", cfg.ShutdownTimeout)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want overlay host", cfg.Server.Host)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Server.Port = %d, want base port kept", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Models) != 1 {
		t.Errorf("Models replaced by overlay without models: %d", len(cfg.Models))
	}
}

func TestLoadFile_MissingOverlayIgnored(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", baseConfig)
	t.Setenv(config.EnvServiceEnv, "absent")

	if _, err := config.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvServiceEnv, "")

	if _, err := config.LoadFile(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("LoadFile() on missing file succeeded")
	}

	bad := writeFile(t, dir, "bad.toml", "server = [")
	if _, err := config.LoadFile(bad); err == nil {
		t.Error("LoadFile() on malformed TOML succeeded")
	}
}

func TestFinalize_Defaults(t *testing.T) {
	t.Setenv(config.EnvSessionBackend, "")
	cfg := &config.Config{Session: config.BackendMemory}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutDuration() != time.Minute {
		t.Errorf("ReadTimeoutDuration() = %v, want 1m", cfg.Server.ReadTimeoutDuration())
	}
	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("API.BasePath = %q, want /api", cfg.API.BasePath)
	}
	if cfg.Web.MaxBodySizeBytes() != 1<<20 {
		t.Errorf("Web.MaxBodySizeBytes() = %d, want 1MiB", cfg.Web.MaxBodySizeBytes())
	}
}

func TestFinalize_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvSessionBackend, config.BackendMemory)
	t.Setenv(config.EnvServerPort, "9999")
	t.Setenv(config.EnvServiceShutdownTimeout, "5s")
	t.Setenv("API_BASE_PATH", "/rest")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Session != config.BackendMemory {
		t.Errorf("Session = %q, want memory", cfg.Session)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.ShutdownTimeout != "5s" {
		t.Errorf("ShutdownTimeout = %q, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.API.BasePath != "/rest" {
		t.Errorf("API.BasePath = %q, want /rest", cfg.API.BasePath)
	}
}

func TestFinalize_Invalid(t *testing.T) {
	t.Setenv(config.EnvSessionBackend, "")
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"unknown session", config.Config{Session: "redis"}},
		{"bad shutdown timeout", config.Config{Session: config.BackendMemory, ShutdownTimeout: "soon"}},
		{"bad port", config.Config{Session: config.BackendMemory, Server: config.ServerConfig{Port: 70000}}},
		{"relative base path", config.Config{Session: config.BackendMemory, API: config.APIConfig{BasePath: "api"}}},
		{"postgres without name", config.Config{Session: config.BackendPostgres}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("Finalize() succeeded, want error")
			}
		})
	}
}

func TestServerConfig_Merge(t *testing.T) {
	base := &config.ServerConfig{Host: "localhost", Port: 8080, ReadTimeout: "30s", WriteTimeout: "30s"}
	base.Merge(&config.ServerConfig{Port: 9090, WriteTimeout: "60s"})

	want := &config.ServerConfig{Host: "localhost", Port: 9090, ReadTimeout: "30s", WriteTimeout: "60s"}
	if diff := cmp.Diff(want, base); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveModels(t *testing.T) {
	dir := t.TempDir()
	modelsFile := writeFile(t, dir, "models.yaml", `models:
  - name: Author
    columns:
      - name: id
        type: integer
        primary_key: true
      - name: name
        type: text
`)

	cfg := &config.Config{
		ModelsFile: modelsFile,
		Models: []config.ModelConfig{{
			Name: "Book",
			Columns: []model.Column{
				{Name: "id", Type: model.TypeInteger, PrimaryKey: true},
				{Name: "title", Type: model.TypeText},
			},
		}},
	}

	entries, err := cfg.ResolveModels()
	if err != nil {
		t.Fatalf("ResolveModels() error = %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"Author", "Book"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if entries[1].Definition().Key() != "book" {
		t.Errorf("Key() = %q, want book", entries[1].Definition().Key())
	}
}

func TestResolveModels_Duplicate(t *testing.T) {
	book := config.ModelConfig{
		Name:    "Book",
		Columns: []model.Column{{Name: "id", Type: model.TypeInteger, PrimaryKey: true}},
	}
	cfg := &config.Config{Models: []config.ModelConfig{book, book}}

	if _, err := cfg.ResolveModels(); err == nil {
		t.Fatal("ResolveModels() accepted duplicate models")
	}
}
