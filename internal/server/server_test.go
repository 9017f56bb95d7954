package server_test

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/JaimeStill/crud-generator/internal/config"
	"github.com/JaimeStill/crud-generator/internal/server"
	"github.com/JaimeStill/crud-generator/pkg/lifecycle"
	"github.com/JaimeStill/crud-generator/pkg/logging"
)

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := &config.Config{
		Server:          config.ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: "5s", WriteTimeout: "5s"},
		ShutdownTimeout: "5s",
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	lc := lifecycle.New()
	srv := server.New(cfg, handler, logging.Discard())
	if err := srv.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if _, err := http.Get("http://" + srv.Addr() + "/"); err == nil {
		t.Error("server still accepting connections after shutdown")
	}
}

func TestServer_StartBindError(t *testing.T) {
	cfg := &config.Config{
		Server:          config.ServerConfig{Host: "256.0.0.1", Port: 80},
		ShutdownTimeout: "1s",
	}
	srv := server.New(cfg, http.NotFoundHandler(), logging.Discard())
	if err := srv.Start(lifecycle.New()); err == nil {
		t.Fatal("Start() succeeded on an invalid address")
	}
}
