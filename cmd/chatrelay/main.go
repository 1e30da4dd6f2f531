// Package main is the entry point for the chat relay server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"chatrelay/config"
	"chatrelay/internal/logging"
	"chatrelay/internal/observability"
	"chatrelay/internal/pkg/llmclient"
	"chatrelay/internal/server"
	"chatrelay/internal/upstream"
	"chatrelay/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Setup(cfg.Logging.Format)

	slog.Info("starting chatrelay",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	// The credential is checked per request, but a missing key at startup is
	// worth flagging for the operator immediately. The key itself is never logged.
	if cfg.Upstream.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not set - chat requests will fail with 500 until it is configured")
	}

	// Setup metrics before the upstream client so its hooks are wired in
	var metrics *observability.Metrics
	hooks := llmclient.Hooks{}
	if cfg.Metrics.Enabled {
		metrics = observability.New(prometheus.DefaultRegisterer)
		hooks = metrics.Hooks()
		slog.Info("prometheus metrics enabled", "endpoint", "/metrics")
	} else {
		slog.Info("prometheus metrics disabled")
	}

	// Create the upstream client
	client := upstream.New(cfg, hooks)
	if cfg.Upstream.BaseURL != "" {
		client.SetBaseURL(cfg.Upstream.BaseURL)
	}
	slog.Info("upstream configured", "base_url", cfg.Upstream.BaseURL, "model", cfg.Upstream.Model)

	// Create and start server
	srv := server.New(client, cfg, &server.Config{
		Model:          cfg.Upstream.Model,
		MetricsEnabled: cfg.Metrics.Enabled,
		Metrics:        metrics,
	})

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}
