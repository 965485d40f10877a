package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/tenure/internal/audit"
	auditasync "github.com/crimson-sun/tenure/internal/audit/async"
	auditfile "github.com/crimson-sun/tenure/internal/audit/file"
	"github.com/crimson-sun/tenure/internal/audit/multi"
	"github.com/crimson-sun/tenure/internal/config"
	"github.com/crimson-sun/tenure/internal/engine/classifier"
	"github.com/crimson-sun/tenure/internal/logging"
	"github.com/crimson-sun/tenure/internal/schema"
	"github.com/crimson-sun/tenure/internal/scorer"
	"github.com/crimson-sun/tenure/internal/server"
	"github.com/crimson-sun/tenure/internal/store"
	"github.com/crimson-sun/tenure/internal/store/csvfile"
	"github.com/crimson-sun/tenure/internal/store/postgres"
	"github.com/crimson-sun/tenure/internal/trainer"
)

func main() {
	cfg := config.Load()
	if len(os.Args) > 1 {
		// Subcommand overrides TENURE_MODE.
		cfg.Mode = os.Args[1]
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "tenure: invalid configuration:\n%v\n", err)
		os.Exit(2)
	}

	logger := logging.Init(cfg.Mode == "serve", logging.ParseLevel(os.Getenv("TENURE_LOG_LEVEL")))
	logger.Info("tenure starting", "version", config.Version, "mode", cfg.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch cfg.Mode {
	case "train":
		err = runTrain(ctx, cfg, logger)
	case "ingest":
		err = runIngest(ctx, cfg, logger)
	default:
		err = runServe(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("tenure exited with error", "error", err)
		os.Exit(1)
	}
}

func runTrain(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	src, err := store.Open(ctx, store.Config{
		Provider: cfg.Store.Provider,
		DSN:      cfg.Store.DSN,
		Dir:      cfg.Store.Dir,
		Table:    cfg.Store.Table,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	tr := trainer.New(schema.Default(), trainer.Config{
		ArtifactPath: cfg.Training.ArtifactPath,
		TestFraction: cfg.Training.TestFraction,
		Seed:         cfg.Training.Seed,
		Model: classifier.Options{
			LearningRate: cfg.Training.LearningRate,
			Epochs:       cfg.Training.Epochs,
		},
	}, logger)

	res, err := tr.Run(ctx, src)
	if err != nil {
		return err
	}

	// The run report goes to stdout so callers can capture it.
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// runIngest merges the CSV extracts and appends them to the database
// table that training reads from.
func runIngest(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.Store.DSN == "" {
		return errors.New("ingest requires TENURE_DATABASE_URL")
	}

	src := csvfile.New(cfg.Store.Dir)
	f, err := src.Load(ctx)
	if err != nil {
		return err
	}

	db, err := postgres.Open(ctx, cfg.Store.DSN, cfg.Store.Table)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Ingest(ctx, f)
	if err != nil {
		return err
	}
	logger.Info("extracts ingested", "rows", n, "table", cfg.Store.Table)
	return nil
}

func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	sink, cleanup, err := buildAuditSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sc := scorer.New(schema.Default(), cfg.Training.ArtifactPath, logger)
	if !sc.Ready() {
		logger.Warn("no model artifact yet, serving will return unavailable until training lands one",
			"artifact_path", cfg.Training.ArtifactPath)
	}

	srv := server.New(cfg.Serving.Addr, sc, schema.Default(), sink, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildAuditSink assembles the configured sinks: an NDJSON file, plus a
// database mirror when enabled, both behind an async wrapper so audit
// never slows serving.
func buildAuditSink(ctx context.Context, cfg config.Config) (audit.Sink, func(), error) {
	var sinks []audit.Sink

	if cfg.Audit.Path != "" {
		fs, err := auditfile.New(cfg.Audit.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit file: %w", err)
		}
		sinks = append(sinks, fs)
	}

	var db *postgres.Store
	if cfg.Audit.Database {
		var err error
		db, err = postgres.Open(ctx, cfg.Store.DSN, cfg.Store.Table)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit database: %w", err)
		}
		sinks = append(sinks, db.Audit())
	}

	cleanup := func() {
		if db != nil {
			db.Close()
		}
	}
	if len(sinks) == 0 {
		return nil, cleanup, nil
	}

	var inner audit.Sink = sinks[0]
	if len(sinks) > 1 {
		inner = multi.New(sinks...)
	}
	return auditasync.New(inner, auditasync.WithDropOnFull()), cleanup, nil
}
