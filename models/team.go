package models

import "github.com/google/uuid"

// Record is a team's cumulative result line.
type Record struct {
	Games    int `json:"games" db:"games"`
	Wins     int `json:"wins" db:"wins"`
	Draws    int `json:"draws" db:"draws"`
	Losses   int `json:"losses" db:"losses"`
	Goals    int `json:"goals" db:"goals"`
	Conceded int `json:"conceded" db:"conceded"`
	Points   int `json:"points" db:"points"`
}

func (r Record) GoalDifference() int {
	return r.Goals - r.Conceded
}

// Add returns the field-wise sum of r and d.
func (r Record) Add(d Record) Record {
	return Record{
		Games:    r.Games + d.Games,
		Wins:     r.Wins + d.Wins,
		Draws:    r.Draws + d.Draws,
		Losses:   r.Losses + d.Losses,
		Goals:    r.Goals + d.Goals,
		Conceded: r.Conceded + d.Conceded,
		Points:   r.Points + d.Points,
	}
}

// Team is the working copy of a team for the current tournament.
type Team struct {
	ID       uuid.UUID `json:"id" db:"id"`
	GameID   uuid.UUID `json:"game_id" db:"game_id"`
	Name     string    `json:"name" db:"name"`
	Color    TeamColor `json:"color" db:"color"`
	Position int       `json:"position" db:"position"`
	Record
}

// TeamHistory is the permanent ledger entry of a team. It survives
// "clear results" on the working Team.
type TeamHistory struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OriginalID uuid.UUID `json:"original_id" db:"original_id"`
	GameID     uuid.UUID `json:"game_id" db:"game_id"`
	Name       string    `json:"name" db:"name"`
	Color      TeamColor `json:"color" db:"color"`
	Record
}

// NewTeamHistory opens a zeroed ledger entry for t.
func NewTeamHistory(t Team) TeamHistory {
	return TeamHistory{
		ID:         uuid.New(),
		OriginalID: t.ID,
		GameID:     t.GameID,
		Name:       t.Name,
		Color:      t.Color,
	}
}

// AsTeam presents a ledger entry in the shape of a team, keyed by the original id.
func (h TeamHistory) AsTeam() Team {
	return Team{
		ID:     h.OriginalID,
		GameID: h.GameID,
		Name:   h.Name,
		Color:  h.Color,
		Record: h.Record,
	}
}
