package schedule

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dekcal/internal/clock"
)

// fixtureNow anchors relative date resolution for the fixture file, which
// mixes December and January section headers.
var fixtureNow = time.Date(2024, time.December, 20, 12, 0, 0, 0, time.Local)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/schedule.html")
	require.NoError(t, err, "failed to load test fixture")
	return string(data)
}

func TestParse_Fixture(t *testing.T) {
	p := NewParser(clock.NewFixed(fixtureNow))
	rows := p.Parse(loadFixture(t))

	// Five schedule_container rows: one lacks a second team, one has an
	// unresolvable time, three survive.
	require.Len(t, rows, 3)

	relative := rows[0]
	assert.Equal(t, []string{"Les Prédateurs", "Les Vikings"}, relative.Teams,
		"repeated team links should be deduplicated in order")
	assert.Equal(t, "Hockey", relative.Category, "category is the first token of the label")
	assert.Equal(t, time.Date(2024, time.December, 26, 18, 0, 0, 0, time.Local), relative.Start,
		"relative row inherits the section header date")
	assert.Equal(t, "Dek Hockey Québec (St-Aug)", relative.Venue)

	absolute := rows[1]
	assert.Equal(t, []string{"Les Titans", "Les Loups"}, absolute.Teams)
	assert.Equal(t, time.Date(2025, time.January, 12, 19, 30, 0, 0, time.Local), absolute.Start,
		"absolute row pairs the ISO date cell with the time cell")
	assert.Equal(t, "Centre Multisports (Chauveau)", absolute.Venue,
		"venue read from the time cell")

	rolled := rows[2]
	assert.Equal(t, []string{"Les Phénix", "Les Dragons"}, rolled.Teams)
	assert.Equal(t, "Unknown", rolled.Category, "missing category label yields the sentinel")
	assert.Equal(t, time.Date(2025, time.December, 15, 20, 0, 0, 0, time.Local), rolled.Start,
		"day earlier than today in the current month rolls the year forward")
	assert.Equal(t, "Centre Lévis", rolled.Venue)
}

func TestParse_NoScheduleTable(t *testing.T) {
	p := NewParser(clock.NewFixed(fixtureNow))

	rows := p.Parse("<html><body><p>rien ici</p></body></html>")
	assert.Empty(t, rows)
}

func TestParse_EmptyTable(t *testing.T) {
	p := NewParser(clock.NewFixed(fixtureNow))

	rows := p.Parse(`<html><body><table class="schedule_table"><tbody></tbody></table></body></html>`)
	assert.Empty(t, rows)
}

func TestParse_RelativeRowWithoutSectionHeader(t *testing.T) {
	p := NewParser(clock.NewFixed(fixtureNow))

	// A game row before any date header has nothing to resolve its time against.
	html := `<html><body><table class="schedule_table"><tbody>
		<tr class="schedule_container">
			<td><a href="/equipes/a/">Equipe A</a><div class="cat_name"><span>Hockey</span></div></td>
			<td><a href="/equipes/b/">Equipe B</a></td>
			<td><div class="game_date">18:00</div></td>
			<td><div class="game_venue">Dek Hockey Québec (St-Aug)</div></td>
		</tr>
	</tbody></table></body></html>`

	rows := p.Parse(html)
	assert.Empty(t, rows)
}

func TestParse_InvalidAbsoluteDateCell(t *testing.T) {
	p := NewParser(clock.NewFixed(fixtureNow))

	// An impossible calendar date must be discarded, not normalized.
	html := `<html><body><table class="schedule_table"><tbody>
		<tr class="schedule_container">
			<td><a href="/equipes/a/">Equipe A</a><div class="cat_name"><span>Hockey</span></div></td>
			<td><a href="/equipes/b/">Equipe B</a></td>
			<td><div class="game_date">2025-02-30</div></td>
			<td><div class="game_date">18:00</div><div class="game_venue">Dek Hockey Québec (St-Aug)</div></td>
		</tr>
	</tbody></table></body></html>`

	rows := p.Parse(html)
	assert.Empty(t, rows)
}
