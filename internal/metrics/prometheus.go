package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the schedule sync worker

var (
	// Fetch metrics
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dekcal_fetches_total",
			Help: "Total number of schedule page fetches",
		},
		[]string{"status"},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dekcal_fetch_duration_seconds",
			Help:    "Duration of schedule page fetches in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120},
		},
	)

	// Parse metrics
	RowsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dekcal_rows_processed_total",
			Help: "Total number of schedule table rows processed",
		},
	)

	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dekcal_rows_skipped_total",
			Help: "Total number of schedule rows skipped",
		},
		[]string{"reason"},
	)

	GamesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dekcal_games_found_total",
			Help: "Total number of games matched to configured teams",
		},
	)

	// Calendar metrics
	EventsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dekcal_events_added_total",
			Help: "Total number of calendar events created",
		},
	)

	EventsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dekcal_events_duplicate_total",
			Help: "Total number of games skipped as already present",
		},
	)

	CalendarErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dekcal_calendar_errors_total",
			Help: "Total number of calendar store call failures",
		},
		[]string{"operation"},
	)

	// Sync metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dekcal_sync_duration_seconds",
			Help:    "Duration of full sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
)

// RecordFetch records a schedule fetch outcome
func RecordFetch(status string, duration float64) {
	FetchesTotal.WithLabelValues(status).Inc()
	FetchDuration.Observe(duration)
}

// RecordRowSkipped records a skipped schedule row
func RecordRowSkipped(reason string) {
	RowsSkipped.WithLabelValues(reason).Inc()
}

// RecordCalendarError records a calendar store call failure
func RecordCalendarError(operation string) {
	CalendarErrors.WithLabelValues(operation).Inc()
}
