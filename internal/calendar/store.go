package calendar

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"dekcal/internal/metrics"
	"dekcal/internal/models"
)

// Store is the slice of the calendar app the sync needs: a point lookup for
// duplicate detection and event creation in a named calendar.
type Store interface {
	// EventExists reports whether the named calendar already holds an event
	// with the given start and title.
	EventExists(ctx context.Context, calendarName, title string, start time.Time) (bool, error)

	// CreateEvent creates a new event for the game in its calendar bucket.
	CreateEvent(ctx context.Context, game *models.Game) error
}

// Summary reports the outcome of a sync run.
type Summary struct {
	Added      int
	Duplicates int
	Failed     int
}

// Writer inserts games into the calendar store, skipping ones already there.
// Duplicate identity is (calendar, start, title); two different games with
// the same title at the same start would collide, which matches how the
// schedule is actually laid out.
type Writer struct {
	store Store
}

// NewWriter creates a writer over the given store.
func NewWriter(store Store) *Writer {
	return &Writer{store: store}
}

// Sync ensures each game has exactly one matching event. A failed existence
// check falls through to insertion: a possible duplicate beats a silently
// dropped game. Insert failures are logged per game and never abort the
// batch.
func (w *Writer) Sync(ctx context.Context, games []models.Game) Summary {
	var sum Summary

	for i := range games {
		game := &games[i]

		exists, err := w.store.EventExists(ctx, game.Calendar, game.Title, game.Start)
		if err != nil {
			metrics.RecordCalendarError("exists")
			log.Warn().
				Err(err).
				Str("title", game.Title).
				Msg("Could not check if event exists, attempting to add anyway")
		} else if exists {
			metrics.EventsDuplicate.Inc()
			sum.Duplicates++
			log.Info().
				Str("title", game.Title).
				Time("start", game.Start).
				Msg("Skipped: event already in calendar")
			continue
		}

		if err := w.store.CreateEvent(ctx, game); err != nil {
			metrics.RecordCalendarError("create")
			sum.Failed++
			log.Error().
				Err(err).
				Str("title", game.Title).
				Str("calendar", game.Calendar).
				Msg("Failed to add event; make sure the calendar exists in the calendar app")
			continue
		}

		metrics.EventsAdded.Inc()
		sum.Added++
		log.Info().
			Str("title", game.Title).
			Time("start", game.Start).
			Str("calendar", game.Calendar).
			Msg("Added event")
	}

	return sum
}
