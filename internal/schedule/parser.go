package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"dekcal/internal/clock"
	"dekcal/internal/metrics"
)

// Skip reasons recorded when a schedule row cannot produce a game.
const (
	SkipMissingTeams    = "missing_teams"
	SkipUnresolvedStart = "unresolved_start"
	SkipNotOurTeam      = "not_our_team"
	SkipPastGame        = "past_game"
	SkipUnknownVenue    = "unknown_venue"
)

// defaultVenue marks rows where the markup carried no venue element.
const defaultVenue = "TBD"

var (
	isoDatePattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	bareTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// Row is a schedule table row with its timestamp resolved, before team
// matching and venue routing.
type Row struct {
	Teams    []string
	Category string
	Start    time.Time
	Venue    string
}

// Parser extracts game rows from the rendered schedule widget HTML.
//
// The widget mixes two date encodings: some rows carry an ISO date plus a
// bare time split across cells, others carry only a time and inherit their
// date from the French-language section header above them. The header
// context is threaded through the row walk as an explicit fold value.
type Parser struct {
	clock clock.Clock
}

// NewParser creates a parser; the clock anchors relative date resolution.
func NewParser(clk clock.Clock) *Parser {
	return &Parser{clock: clk}
}

// Parse walks the schedule table and returns every row with two distinct
// teams and a resolvable timestamp. A missing table or unparseable document
// yields zero rows; per-row gaps are logged and counted, never fatal.
func (p *Parser) Parse(html string) []Row {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse schedule HTML")
		return nil
	}

	table := doc.Find("table.schedule_table").First()
	if table.Length() == 0 {
		log.Error().Msg("Could not find schedule table")
		return nil
	}

	rows := make([]Row, 0)
	sectionDate := ""

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// Date section headers set the context for relative rows below them.
		if h2 := tr.Find("h2"); h2.Length() > 0 {
			sectionDate = strings.TrimSpace(h2.First().Text())
			return
		}
		if !tr.HasClass("schedule_container") {
			return
		}

		metrics.RowsProcessed.Inc()
		row, skip := p.parseGameRow(tr, sectionDate)
		if skip != "" {
			metrics.RecordRowSkipped(skip)
			return
		}
		rows = append(rows, row)
	})

	log.Info().Int("count", len(rows)).Msg("Schedule rows parsed")
	return rows
}

// parseGameRow extracts one game row; a non-empty skip reason means discard.
func (p *Parser) parseGameRow(tr *goquery.Selection, sectionDate string) (Row, string) {
	teams := extractTeams(tr)
	if len(teams) < 2 {
		log.Debug().Msg("Skipped row: could not extract two team names")
		return Row{}, SkipMissingTeams
	}

	category := extractCategory(tr, teams)

	start, venue, ok := extractAbsoluteStart(tr)
	if !ok && sectionDate != "" {
		start, venue, ok = p.extractRelativeStart(tr, sectionDate)
	}
	if !ok {
		log.Debug().
			Strs("teams", teams).
			Msg("Skipped row: could not determine date/time")
		return Row{}, SkipUnresolvedStart
	}

	return Row{Teams: teams, Category: category, Start: start, Venue: venue}, ""
}

// extractTeams collects team names from anchors pointing at team pages,
// deduplicated in first-seen order. The markup sometimes links a team twice
// per row (logo and name).
func extractTeams(tr *goquery.Selection) []string {
	seen := make(map[string]bool)
	teams := make([]string, 0, 2)
	tr.Find(`a[href*="/equipes/"]`).Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		teams = append(teams, name)
	})
	return teams
}

// extractCategory takes the first whitespace token of the category label.
func extractCategory(tr *goquery.Selection, teams []string) string {
	catDiv := tr.Find("div.cat_name").First()
	if catDiv.Length() == 0 {
		log.Warn().
			Str("game", fmt.Sprintf("%s vs %s", teams[0], teams[1])).
			Msg("Could not find category for game row")
		return "Unknown"
	}

	text := strings.TrimSpace(catDiv.Find("span").First().Text())
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "Hockey"
	}
	return fields[0]
}

// extractAbsoluteStart handles rows where one cell holds a bare H:MM time
// and a sibling cell holds a YYYY-MM-DD date. The venue, when present, sits
// in the same cell as the time.
func extractAbsoluteStart(tr *goquery.Selection) (time.Time, string, bool) {
	var start time.Time
	venue := defaultVenue
	found := false

	cells := tr.Find("td")
	cells.EachWithBreak(func(_ int, td *goquery.Selection) bool {
		dateDiv := td.Find("div.game_date").First()
		if dateDiv.Length() == 0 {
			return true
		}
		text := strings.TrimSpace(dateDiv.Text())
		if isoDatePattern.MatchString(text) {
			return true
		}
		if !bareTimePattern.MatchString(text) {
			return true
		}

		// This cell holds the time; cross-reference the row's other cells
		// for the date half.
		timeStr := text
		cells.EachWithBreak(func(_ int, other *goquery.Selection) bool {
			otherDiv := other.Find("div.game_date").First()
			if otherDiv.Length() == 0 {
				return true
			}
			dateStr := isoDatePattern.FindString(strings.TrimSpace(otherDiv.Text()))
			if dateStr == "" {
				return true
			}
			if t, ok := combineISODateTime(dateStr, timeStr); ok {
				start = t
				found = true
			} else {
				log.Debug().
					Str("date", dateStr).
					Str("time", timeStr).
					Msg("Could not combine absolute date cells")
			}
			return false
		})

		if v := strings.TrimSpace(td.Find("div.game_venue").First().Text()); v != "" {
			venue = v
		}
		return false
	})

	return start, venue, found
}

// extractRelativeStart handles rows without an ISO date: the row-level time
// is combined with the section header via French date resolution, and the
// venue is read from the row-level venue element.
func (p *Parser) extractRelativeStart(tr *goquery.Selection, sectionDate string) (time.Time, string, bool) {
	timeDiv := tr.Find("div.game_date").First()
	if timeDiv.Length() == 0 {
		return time.Time{}, "", false
	}

	start, ok := ParseFrenchDate(sectionDate, strings.TrimSpace(timeDiv.Text()), p.clock.Now())
	if !ok {
		return time.Time{}, "", false
	}

	venue := defaultVenue
	if v := strings.TrimSpace(tr.Find("div.game_venue").First().Text()); v != "" {
		venue = v
	}
	return start, venue, true
}

// combineISODateTime pairs "2024-12-15" with "18:00" into one timestamp.
func combineISODateTime(dateStr, timeStr string) (time.Time, bool) {
	var year, month, day int
	if _, err := fmt.Sscanf(dateStr, "%d-%d-%d", &year, &month, &day); err != nil {
		return time.Time{}, false
	}
	var hour, minute int
	if _, err := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, false
	}
	return makeDate(year, time.Month(month), day, hour, minute)
}
