package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/price-tracker/internal/api"
	"github.com/rickgao/price-tracker/internal/asset"
	"github.com/rickgao/price-tracker/internal/config"
	"github.com/rickgao/price-tracker/internal/connection"
	"github.com/rickgao/price-tracker/internal/fetcher"
	"github.com/rickgao/price-tracker/internal/poller"
	"github.com/rickgao/price-tracker/internal/query"
	"github.com/rickgao/price-tracker/internal/server"
	"github.com/rickgao/price-tracker/internal/store"
	"github.com/rickgao/price-tracker/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	envFile := flag.String("env", ".env", "path to .env file")
	once := flag.Bool("once", false, "run a single refresh cycle, print the snapshots and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load %s: %v\n", *envFile, err)
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := newLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting tracker",
		"version", version.Version,
		"commit", version.Commit,
		"instance_id", cfg.Instance.ID,
		"config", *configPath,
	)

	registry := asset.Default()
	snapshots := store.New()

	client := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent),
	)

	f := fetcher.New(fetcher.Config{
		IntraFetchDelay: cfg.Refresh.IntraFetchDelay,
		HistoryDays:     cfg.Refresh.HistoryDays,
	}, client, logger)

	p := poller.New(poller.Config{
		InterAssetDelay: cfg.Refresh.InterAssetDelay,
		CycleDelay:      cfg.Refresh.CycleDelay,
		BackoffDelay:    cfg.Refresh.BackoffDelay,
		InitialDelay:    cfg.Refresh.InitialDelay,
	}, registry, f, snapshots, logger)

	queries := query.New(registry, snapshots)

	if *once {
		if err := runOnce(p, queries, logger); err != nil {
			logger.Error("refresh failed", "err", err)
			os.Exit(1)
		}
		return
	}

	commands := connection.NewHandler(connection.Config{
		PingInterval: cfg.Server.PingInterval,
		PongTimeout:  cfg.Server.PongTimeout,
	}, queries, logger)

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}, server.Deps{
		Queries:  queries,
		Status:   p,
		Updates:  snapshots,
		Commands: commands,
	}, logger)

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "err", err)
		os.Exit(1)
	}

	g.Go(srv.ListenAndServe)

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := p.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop poller: %w", err))
		}
		return errors.Join(errs...)
	})

	logger.Info("tracker running",
		"assets", registry.Len(),
		"url", fmt.Sprintf("http://localhost:%d/api/price?id=bitcoin", cfg.Server.Port),
	)

	if err := g.Wait(); err != nil {
		logger.Error("tracker exited with error", "err", err)
		os.Exit(1)
	}

	logger.Info("tracker stopped")
}

// runOnce performs one refresh cycle and prints every snapshot as JSON.
func runOnce(p *poller.Poller, queries *query.Service, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := p.RunCycle(ctx)
	logger.Info("refresh cycle complete",
		"cycle", result.ID,
		"updated", len(result.Updated),
		"failed", len(result.Failed),
		"skipped", len(result.Skipped),
		"rate_limited", result.RateLimited,
		"duration", result.Duration,
	)

	out := make(map[string]any, len(queries.Assets()))
	for _, a := range queries.Assets() {
		snap, ok := queries.GetAsset(a.ID)
		if !ok {
			out[a.ID] = nil
			continue
		}
		out[a.ID] = snap
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}

	if len(result.Updated) == 0 {
		return fmt.Errorf("no assets updated (rate limited: %t)", result.RateLimited)
	}
	return nil
}
