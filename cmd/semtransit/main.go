// Package main implements the entry point for the semtransit pipeline.
// semtransit builds a typed knowledge base from GTFS-style transit tables,
// computes the classification closure over it, and exports the result as
// N-Quads.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/c360/semtransit/classify"
	"github.com/c360/semtransit/config"
	"github.com/c360/semtransit/export"
	"github.com/c360/semtransit/graph"
	"github.com/c360/semtransit/ingest"
	"github.com/c360/semtransit/metric"
	"github.com/c360/semtransit/vocabulary"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semtransit"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Pipeline failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	if cliCfg.OutputPath != "" {
		cfg.Output.Path = cliCfg.OutputPath
	}
	if cliCfg.MetricsAddr != "" {
		cfg.Metrics.Addr = cliCfg.MetricsAddr
	}

	metrics := metric.NewRegistry()
	stopMetrics := startMetricsServer(cfg.Metrics.Addr, metrics)
	defer stopMetrics()

	return runPipeline(cfg, logger, metrics.Metrics)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting semtransit (transit knowledge-base builder)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// runPipeline executes the batch: schema, ingest, classify, export.
func runPipeline(cfg *config.Config, logger *slog.Logger, metrics *metric.Metrics) error {
	registry, err := vocabulary.NewRegistry(
		vocabulary.WithFastTransferBound(cfg.Ontology.FastTransferMaxSeconds))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	store := graph.NewStore(registry)

	loader := ingest.NewLoader(store,
		ingest.WithLogger(logger),
		ingest.WithMetrics(metrics))
	summary, err := loader.Load(cfg.Tables)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	engineOpts := []classify.Option{
		classify.WithLogger(logger),
		classify.WithMetrics(metrics),
	}
	if cfg.Classify.MaxPasses > 0 {
		engineOpts = append(engineOpts, classify.WithMaxPasses(cfg.Classify.MaxPasses))
	}

	report, err := classify.NewEngine(store, engineOpts...).Run()
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	slog.Info("Classification complete",
		"individuals", store.Len(),
		"inferred_edges", report.InferredEdges,
		"passes", report.Passes,
		"violations", len(report.Violations))

	if err := export.WriteFile(cfg.Output.Path, store, cfg.Ontology.BaseIRI); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	slog.Info("Export written",
		"path", cfg.Output.Path,
		"stops", summary.Stops,
		"routes", summary.Routes,
		"trips", summary.Trips)
	return nil
}

// startMetricsServer exposes the metrics endpoint for the duration of the
// run when an address is configured. The returned function shuts it down.
func startMetricsServer(addr string, metrics *metric.Registry) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("Metrics endpoint failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
