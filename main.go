package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cfl_scraper/batch"
	"cfl_scraper/config"
	"cfl_scraper/export"
	"cfl_scraper/generator"
	"cfl_scraper/logging"
	"cfl_scraper/models"
	"cfl_scraper/scheduler"
	"cfl_scraper/server"
	"cfl_scraper/storage"
)

var (
	batchMode = flag.Bool("batch", false, "Run one export and exit")
	city      = flag.String("city", "", "Export a single city (default: full roster)")
	limit     = flag.Int("limit", -1, "Records per city (default: DEFAULT_LIMIT)")
	outDir    = flag.String("out", "", "Output directory for batch files (default: EXPORT_DIR)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		slog.Warn("Could not set up file logging", "path", cfg.LogFile, "error", err)
	} else if logFile != nil {
		defer logFile.Close()
	}

	slog.Info("Starting cfl_scraper", "cities", len(cfg.Cities), "default_limit", cfg.Limits.Default, "max_limit", cfg.Limits.Max)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := generator.New(generator.NewLockedSource(cfg.Seed))

	trigger := models.TriggerSchedule
	if *batchMode {
		trigger = models.TriggerCLI
	}
	dir := cfg.ExportDir
	if *outDir != "" {
		dir = *outDir
	}
	runner := batch.NewRunner(gen, dir, trigger)

	var runs server.RunLister
	if cfg.DBPath != "" {
		sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to open SQLite", "path", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		runner.SetStore(sqliteStore)
		runs = sqliteStore
		slog.Info("Run history enabled", "path", cfg.DBPath)
	}

	if cfg.DatabaseURL != "" {
		pgStore, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Warn("Postgres listing sink unavailable", "error", err)
		} else {
			defer pgStore.Close()
			runner.SetSink(pgStore)
			slog.Info("Connected to Postgres", "url", maskConnectionString(cfg.DatabaseURL))
		}
	}

	if cfg.S3.Enabled() {
		uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			slog.Warn("S3 uploads unavailable", "error", err)
		} else {
			runner.SetUploader(uploader)
			slog.Info("S3 uploads enabled", "bucket", cfg.S3.Bucket, "prefix", cfg.S3.Prefix)
		}
	}

	if *batchMode {
		cities := cfg.Cities
		if *city != "" {
			cities = []string{*city}
		}
		summary, err := runner.Run(ctx, cities, batchLimit(*limit, cfg.Limits))
		if err != nil {
			slog.Error("Export failed", "error", err)
			os.Exit(1)
		}
		summary.Print(os.Stdout)
		return
	}

	adapter := export.New(gen, cfg.Cities)
	srv := server.NewServer(cfg.Port, server.NewHandlers(adapter, cfg.Limits, runs), slog.Default())

	sched := scheduler.New(cfg.Scheduler, runner, cfg.Cities, cfg.Limits.Default)
	if err := sched.Start(ctx); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting REST API server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		slog.Error("Could not start server", "error", err)
	}

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Server shutdown", "error", err)
	}
	sched.Stop()
	slog.Info("Goodbye!")
}

// batchLimit applies the request limit policy to the -limit flag
func batchLimit(flagValue int, limits export.Limits) int {
	if flagValue < 0 {
		return limits.Default
	}
	return min(flagValue, limits.Max)
}

// maskConnectionString hides the password in a connection URL for logging
func maskConnectionString(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	return u.Redacted()
}
