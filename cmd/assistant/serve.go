// cmd/assistant/serve.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"web-assistant/internal/api"
	"web-assistant/internal/common/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Serve exposes the chat page on /, questions on POST /ask, recent
interactions on /history, and /health, /ready and /metrics for operators.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	serveCmd.Flags().Duration("shutdown-timeout", 15*time.Second, "grace period for in-flight requests and queued records")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if cfg.App.Version == "" {
		cfg.App.Version = version
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, true)
	if err != nil {
		return err
	}

	var ready api.ReadinessChecker
	if app.conns != nil {
		ready = app.conns
	}
	handler := api.NewHandler(app.orchestrator, app.recorder, ready, cfg.App.Version, app.log)
	server := api.NewServer(handler, api.ServerConfig{
		Addr:         cfg.Server.Addr(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}, app.log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	app.log.Info("assistant started", map[string]interface{}{
		"addr":         cfg.Server.Addr(),
		"environment":  cfg.App.Environment,
		"ai_available": app.orchestrator.Available(),
		"sinks":        cfg.Storage.Sinks,
	})

	select {
	case <-ctx.Done():
		app.log.Info("shutdown signal received", nil)
	case err = <-errCh:
		if err != nil {
			app.log.Error("http server stopped", map[string]interface{}{"error": err})
		}
	}

	timeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		app.log.Warn("http server shutdown incomplete", map[string]interface{}{"error": shutdownErr})
	}
	app.close(shutdownCtx)
	return err
}
