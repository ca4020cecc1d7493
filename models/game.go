package models

import (
	"time"

	"github.com/google/uuid"
)

// GameFormat is the on-field roster size, stored as its display name ("5x5").
type GameFormat string

const (
	Format4x4   GameFormat = "4x4"
	Format5x5   GameFormat = "5x5"
	Format6x6   GameFormat = "6x6"
	Format7x7   GameFormat = "7x7"
	Format8x8   GameFormat = "8x8"
	Format9x9   GameFormat = "9x9"
	Format10x10 GameFormat = "10x10"
	Format11x11 GameFormat = "11x11"
)

var gameFormats = []GameFormat{
	Format4x4, Format5x5, Format6x6, Format7x7,
	Format8x8, Format9x9, Format10x10, Format11x11,
}

// GameFormats returns every supported format in ascending roster size.
func GameFormats() []GameFormat {
	out := make([]GameFormat, len(gameFormats))
	copy(out, gameFormats)
	return out
}

// ParseGameFormat falls back to 5x5 for unknown values.
func ParseGameFormat(raw string) GameFormat {
	for _, f := range gameFormats {
		if string(f) == raw {
			return f
		}
	}
	return Format5x5
}

// PlayerQuantity is the number of players per team on the field.
func (f GameFormat) PlayerQuantity() int {
	for i, candidate := range gameFormats {
		if candidate == f {
			return i + 4
		}
	}
	return 5
}

// TeamQuantity is the number of teams taking part in a game.
type TeamQuantity int

const (
	TwoTeams   TeamQuantity = 2
	ThreeTeams TeamQuantity = 3
	FourTeams  TeamQuantity = 4
)

// ParseTeamQuantity falls back to three teams for unsupported values.
func ParseTeamQuantity(n int) TeamQuantity {
	switch TeamQuantity(n) {
	case TwoTeams, ThreeTeams, FourTeams:
		return TeamQuantity(n)
	default:
		return ThreeTeams
	}
}

type Game struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	Name            string       `json:"name" db:"name"`
	Format          GameFormat   `json:"format" db:"format"`
	TeamQuantity    TeamQuantity `json:"team_quantity" db:"team_quantity"`
	Rule            Rule         `json:"-" db:"-"`
	RuleName        string       `json:"rule" db:"rule"`
	DurationMinutes int          `json:"duration_minutes" db:"duration_minutes"`
	ModifiedAt      time.Time    `json:"modified_at" db:"modified_at"`
}

// SetRule keeps Rule and RuleName consistent.
func (g *Game) SetRule(r Rule) {
	g.Rule = r
	g.RuleName = r.String()
}

// ResolveRule rebuilds Rule from the stored name, applying the family default.
func (g *Game) ResolveRule() Rule {
	g.TeamQuantity = ParseTeamQuantity(int(g.TeamQuantity))
	g.Rule = ParseRule(g.TeamQuantity, g.RuleName)
	g.RuleName = g.Rule.String()
	return g.Rule
}

// DurationMillis is the configured match length in milliseconds.
func (g *Game) DurationMillis() int64 {
	return int64(g.DurationMinutes) * 60 * 1000
}
