package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/crud-generator/internal/config"
	"github.com/JaimeStill/crud-generator/internal/infrastructure"
	"github.com/JaimeStill/crud-generator/internal/server"
	"github.com/JaimeStill/crud-generator/pkg/database"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		memory  bool
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, cmd.Flags().Changed("config"), func(c *config.Config) {
				if memory {
					c.Session = config.BackendMemory
				}
			})
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&memory, "memory", false, "keep records in memory instead of PostgreSQL")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

// serve runs the service until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}

	if migrate && infra.Database != nil {
		if err := database.Migrate(&cfg.Database, database.Up, infra.Logger); err != nil {
			return err
		}
	}

	app, err := NewApp(cfg, infra, true)
	if err != nil {
		return err
	}

	srv := server.New(cfg, app.Handler(), infra.Logger)

	infra.Logger.Info("starting service", "version", cfg.Version, "addr", cfg.Server.Addr())
	if err := infra.Start(); err != nil {
		return err
	}
	if err := srv.Start(infra.Lifecycle); err != nil {
		return fmt.Errorf("server start failed: %w", err)
	}

	go func() {
		infra.Lifecycle.WaitForStartup()
		infra.Logger.Info("all subsystems ready")
	}()

	<-ctx.Done()

	infra.Logger.Info("initiating shutdown")
	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	infra.Logger.Info("service stopped gracefully")
	return nil
}
