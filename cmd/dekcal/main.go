package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dekcal/internal/browser"
	"dekcal/internal/calendar"
	"dekcal/internal/clock"
	"dekcal/internal/config"
	"dekcal/internal/metrics"
	"dekcal/internal/schedule"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting DDLC schedule sync")

	cfg := config.MustLoad()
	log.Info().
		Strs("teams", cfg.TeamNames).
		Str("url", cfg.ScheduleURL).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, cancelling run...")
		cancel()
	}()

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	runStart := time.Now()
	defer func() {
		metrics.SyncDuration.Observe(time.Since(runStart).Seconds())
	}()

	loader := browser.NewLoader(cfg)
	defer loader.Close()

	fetchStart := time.Now()
	html, err := loader.FetchScheduleHTML(ctx)
	if err != nil {
		metrics.RecordFetch("error", time.Since(fetchStart).Seconds())
		log.Fatal().Err(err).Msg("Failed to fetch schedule page")
	}
	metrics.RecordFetch("success", time.Since(fetchStart).Seconds())

	if html == "" {
		log.Info().Msg("No schedule widget found, nothing to sync")
		return
	}

	clk := clock.NewSystem()
	rows := schedule.NewParser(clk).Parse(html)
	games := schedule.NewNormalizer(cfg.TeamNames, cfg.GameDuration, clk).Normalize(rows)

	if len(games) == 0 {
		log.Info().
			Strs("teams", cfg.TeamNames).
			Msg("No upcoming games found for configured teams; verify the team names match the site")
		return
	}
	log.Info().Int("count", len(games)).Msg("Games found, adding to calendars...")

	writer := calendar.NewWriter(calendar.NewAppleScriptStore(cfg.OsascriptBin))
	summary := writer.Sync(ctx, games)

	log.Info().
		Int("added", summary.Added).
		Int("duplicates", summary.Duplicates).
		Int("failed", summary.Failed).
		Msg("Sync complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
