package middleware_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/crud-generator/pkg/middleware"
)

var testEnv = &middleware.CORSEnv{
	Enabled:          "TEST_CORS_ENABLED",
	Origins:          "TEST_CORS_ORIGINS",
	AllowedMethods:   "TEST_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "TEST_CORS_ALLOWED_HEADERS",
	AllowCredentials: "TEST_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "TEST_CORS_MAX_AGE",
}

func TestCORSFinalizeDefaults(t *testing.T) {
	cfg := &middleware.CORSConfig{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	want := &middleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestCORSFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("TEST_CORS_MAX_AGE", "60")
	t.Setenv("TEST_CORS_ALLOW_CREDENTIALS", "true")

	cfg := &middleware.CORSConfig{}
	if err := cfg.Finalize(testEnv); err != nil {
		t.Fatal(err)
	}

	if !cfg.Enabled || !cfg.AllowCredentials {
		t.Errorf("expected enabled and credentials, got %+v", cfg)
	}
	if diff := cmp.Diff([]string{"http://a.test", "http://b.test"}, cfg.Origins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.MaxAge != 60 {
		t.Errorf("MaxAge = %d, want 60", cfg.MaxAge)
	}
}

func TestCORSMerge(t *testing.T) {
	base := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://base.test"},
		AllowedMethods: []string{"GET"},
		MaxAge:         100,
	}
	base.Merge(&middleware.CORSConfig{
		Enabled: false,
		Origins: []string{"http://overlay.test"},
	})

	if base.Enabled {
		t.Error("Enabled should take overlay value")
	}
	if diff := cmp.Diff([]string{"http://overlay.test"}, base.Origins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"GET"}, base.AllowedMethods); diff != "" {
		t.Errorf("methods should be preserved (-want +got):\n%s", diff)
	}
	if base.MaxAge != 100 {
		t.Errorf("MaxAge = %d, want 100", base.MaxAge)
	}
}
