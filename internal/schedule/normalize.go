package schedule

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"dekcal/internal/clock"
	"dekcal/internal/metrics"
	"dekcal/internal/models"
)

// Calendar buckets, routed by venue text. The buckets must already exist in
// the calendar app; they are never created here.
const (
	CalendarStAug    = "Dek St-Aug"
	CalendarChauveau = "Dek Chauveau"
	CalendarOther    = "Autre"
)

var parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)`)

// Normalizer filters parsed rows down to upcoming games for the configured
// teams and routes each one to a calendar bucket by venue.
type Normalizer struct {
	teams    map[string]bool
	duration time.Duration
	clock    clock.Clock
}

// NewNormalizer creates a normalizer for the given team list. Team names
// match exactly against the names extracted from the schedule.
func NewNormalizer(teamNames []string, duration time.Duration, clk clock.Clock) *Normalizer {
	teams := make(map[string]bool, len(teamNames))
	for _, name := range teamNames {
		teams[name] = true
	}
	return &Normalizer{teams: teams, duration: duration, clock: clk}
}

// Normalize converts rows into games, dropping rows that do not involve
// exactly one configured team, games already in the past, and venues that
// map to no calendar bucket.
func (n *Normalizer) Normalize(rows []Row) []models.Game {
	games := make([]models.Game, 0, len(rows))
	now := n.clock.Now()

	for _, row := range rows {
		game, skip := n.normalizeRow(row, now)
		if skip != "" {
			metrics.RecordRowSkipped(skip)
			continue
		}
		metrics.GamesFound.Inc()
		log.Info().
			Str("title", game.Title).
			Str("matchup", game.Matchup()).
			Time("start", game.Start).
			Str("calendar", game.Calendar).
			Msg("Found game")
		games = append(games, game)
	}

	return games
}

// normalizeRow decides whether one row becomes a game; a non-empty skip
// reason means discard.
func (n *Normalizer) normalizeRow(row Row, now time.Time) (models.Game, string) {
	a, b := row.Teams[0], row.Teams[1]
	aOurs, bOurs := n.teams[a], n.teams[b]
	if aOurs == bOurs {
		// Zero matches: not our game. Two matches: ambiguous pairing between
		// our own teams, nothing sensible to file it under.
		return models.Game{}, SkipNotOurTeam
	}

	ourTeam, opponent, isHome := a, b, false
	if bOurs {
		ourTeam, opponent, isHome = b, a, true
	}

	if row.Start.Before(now) {
		return models.Game{}, SkipPastGame
	}

	calendarName, title, ok := routeVenue(row.Venue, row.Category)
	if !ok {
		log.Warn().
			Str("venue", row.Venue).
			Str("our_team", ourTeam).
			Str("opponent", opponent).
			Msg("Skipped: unknown venue")
		return models.Game{}, SkipUnknownVenue
	}

	game := models.Game{
		Title:    title,
		Start:    row.Start,
		End:      row.Start.Add(n.duration),
		Calendar: calendarName,
		OurTeam:  ourTeam,
		Opponent: opponent,
		IsHome:   isHome,
	}
	game.Notes = game.Matchup() + "\n" + cleanVenue(row.Venue)
	return game, ""
}

// routeVenue maps venue text to a calendar bucket and event title.
// Matching is case-insensitive and checked in priority order.
func routeVenue(venue, category string) (calendarName, title string, ok bool) {
	v := strings.ToLower(venue)
	switch {
	case strings.Contains(v, "(st-aug"):
		return CalendarStAug, "game " + category, true
	case strings.Contains(v, "(chauveau"):
		return CalendarChauveau, "game " + category, true
	case strings.Contains(v, "lévis") || strings.Contains(v, "levis"):
		return CalendarOther, "game " + category + " Levis", true
	}
	return "", "", false
}

// cleanVenue strips the parenthetical region suffix, e.g. "Arena (St-Aug)"
// becomes "Arena".
func cleanVenue(venue string) string {
	return strings.TrimSpace(parentheticalPattern.ReplaceAllString(venue, ""))
}
