package models

import (
	"fmt"
	"time"
)

// Game represents a single league game matched to one of the user's teams,
// ready to be written to the calendar store.
type Game struct {
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	Notes    string

	// Calendar is the destination calendar bucket. The bucket must already
	// exist in the calendar app; it is never created here.
	Calendar string

	OurTeam  string
	Opponent string

	// IsHome is true when our team was listed second in the schedule row.
	IsHome bool
}

// Matchup returns the game pairing in "away @ home" order.
func (g *Game) Matchup() string {
	if g.IsHome {
		return fmt.Sprintf("%s @ %s", g.Opponent, g.OurTeam)
	}
	return fmt.Sprintf("%s @ %s", g.OurTeam, g.Opponent)
}
