package models

import (
	"fmt"

	"github.com/google/uuid"
)

// StatKind names one of the six per-player counters.
type StatKind string

const (
	StatGoal    StatKind = "goal"
	StatAssist  StatKind = "assist"
	StatSave    StatKind = "save"
	StatDribble StatKind = "dribble"
	StatShot    StatKind = "shot"
	StatPass    StatKind = "pass"
)

var statKinds = []StatKind{StatGoal, StatAssist, StatSave, StatDribble, StatShot, StatPass}

func StatKinds() []StatKind {
	out := make([]StatKind, len(statKinds))
	copy(out, statKinds)
	return out
}

func ParseStatKind(raw string) (StatKind, error) {
	for _, k := range statKinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown stat kind %q", raw)
}

type Stats struct {
	Goals    int `json:"goals" db:"goals"`
	Assists  int `json:"assists" db:"assists"`
	Dribbles int `json:"dribbles" db:"dribbles"`
	Passes   int `json:"passes" db:"passes"`
	Shots    int `json:"shots" db:"shots"`
	Saves    int `json:"saves" db:"saves"`
}

// Get returns the counter for kind; unknown kinds read as zero.
func (s Stats) Get(kind StatKind) int {
	switch kind {
	case StatGoal:
		return s.Goals
	case StatAssist:
		return s.Assists
	case StatSave:
		return s.Saves
	case StatDribble:
		return s.Dribbles
	case StatShot:
		return s.Shots
	case StatPass:
		return s.Passes
	}
	return 0
}

// Set replaces the counter for kind.
func (s *Stats) Set(kind StatKind, value int) {
	switch kind {
	case StatGoal:
		s.Goals = value
	case StatAssist:
		s.Assists = value
	case StatSave:
		s.Saves = value
	case StatDribble:
		s.Dribbles = value
	case StatShot:
		s.Shots = value
	case StatPass:
		s.Passes = value
	}
}

// Other is the combined dribbles, shots and passes used as a ranking tie-break.
func (s Stats) Other() int {
	return s.Dribbles + s.Shots + s.Passes
}

type Player struct {
	ID       uuid.UUID `json:"id" db:"id"`
	TeamID   uuid.UUID `json:"team_id" db:"team_id"`
	Name     string    `json:"name" db:"name"`
	Position int       `json:"position" db:"position"`
	Stats
}

// PlayerHistory is the permanent ledger entry of a player. TeamID is the
// original team id.
type PlayerHistory struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OriginalID uuid.UUID `json:"original_id" db:"original_id"`
	TeamID     uuid.UUID `json:"team_id" db:"team_id"`
	GameID     uuid.UUID `json:"game_id" db:"game_id"`
	Name       string    `json:"name" db:"name"`
	Stats
}

// NewPlayerHistory opens a ledger entry for p carrying the given stats.
func NewPlayerHistory(p Player, gameID uuid.UUID, stats Stats) PlayerHistory {
	return PlayerHistory{
		ID:         uuid.New(),
		OriginalID: p.ID,
		TeamID:     p.TeamID,
		GameID:     gameID,
		Name:       p.Name,
		Stats:      stats,
	}
}

// AsPlayer presents a ledger entry in the shape of a player, keyed by the original id.
func (h PlayerHistory) AsPlayer() Player {
	return Player{
		ID:     h.OriginalID,
		TeamID: h.TeamID,
		Name:   h.Name,
		Stats:  h.Stats,
	}
}
