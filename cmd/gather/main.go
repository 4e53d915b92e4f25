// Command gather performs one ingestion run: it ensures the schema exists,
// harvests every registered feed source once, reports the number of newly
// inserted articles and exits. Scheduling repeated runs is external.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/news-comb/app/cfg"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/harvest"
	"github.com/lysyi3m/news-comb/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// help was shown
		return
	}

	setupLogger(appCfg.Debug)

	srcs, err := sources.Load(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load feed sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Feed sources loaded", "count", len(srcs))

	db, err := database.NewConnection(appCfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "version", version, "dirty", dirty)

	fetchTimeout := time.Duration(appCfg.FetchTimeout) * time.Second
	httpClient := &http.Client{Timeout: fetchTimeout}

	harvester := harvest.NewHarvester(
		srcs,
		feed.NewFetcher(httpClient, appCfg.UserAgent, fetchTimeout),
		feed.NewResolver(httpClient, appCfg.UserAgent, fetchTimeout),
		database.NewEntryRepository(db),
		time.Duration(appCfg.LookbackHours)*time.Hour,
		appCfg.WorkerCount,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inserted, err := harvester.Run(ctx)

	slog.Info("Ingestion run complete",
		"inserted", inserted,
		"lookback_hours", appCfg.LookbackHours)

	if err != nil {
		slog.Error("Ingestion run finished with failures", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
