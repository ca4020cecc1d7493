package models

import "github.com/google/uuid"

// Side identifies one of the two scoreboard slots.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func ParseSide(raw string) (Side, bool) {
	switch Side(raw) {
	case SideLeft, SideRight:
		return Side(raw), true
	}
	return "", false
}

func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// SideState is one occupied slot of the scoreboard.
type SideState struct {
	TeamID    uuid.UUID `json:"team_id"`
	TeamName  string    `json:"team_name"`
	TeamColor TeamColor `json:"team_color"`
	Goals     int       `json:"goals"`
	WinStreak int       `json:"win_streak"`
}

// Occupy returns a fresh slot for t with zero goals and streak.
func Occupy(t Team) SideState {
	return SideState{TeamID: t.ID, TeamName: t.Name, TeamColor: t.Color}
}

// LiveMatch is the single scoreboard record of a game.
type LiveMatch struct {
	ID         uuid.UUID `json:"id" db:"id"`
	GameID     uuid.UUID `json:"game_id" db:"game_id"`
	Left       SideState `json:"left"`
	Right      SideState `json:"right"`
	MatchCount int       `json:"match_count" db:"match_count"`
	IsLive     bool      `json:"is_live" db:"is_live"`

	// LastOutTeamID is the team replaced in the previous four-team rotation.
	LastOutTeamID uuid.UUID `json:"last_out_team_id" db:"last_out_team_id"`
	// AwaitingStayChoice is set after a draw that the operator has to settle.
	AwaitingStayChoice bool `json:"awaiting_stay_choice" db:"awaiting_stay_choice"`
}

// NewLiveMatch seats left and right for a freshly created game.
func NewLiveMatch(gameID uuid.UUID, left, right Team) LiveMatch {
	return LiveMatch{
		ID:     uuid.New(),
		GameID: gameID,
		Left:   Occupy(left),
		Right:  Occupy(right),
	}
}

func (m *LiveMatch) Slot(side Side) *SideState {
	if side == SideLeft {
		return &m.Left
	}
	return &m.Right
}

// SideOf reports which slot teamID occupies.
func (m LiveMatch) SideOf(teamID uuid.UUID) (Side, bool) {
	switch teamID {
	case m.Left.TeamID:
		return SideLeft, true
	case m.Right.TeamID:
		return SideRight, true
	}
	return "", false
}

func (m LiveMatch) Occupies(teamID uuid.UUID) bool {
	_, ok := m.SideOf(teamID)
	return ok
}

// Outcome is the result of a finished match from the left side's point of view.
type Outcome string

const (
	OutcomeLeftWin  Outcome = "left_win"
	OutcomeRightWin Outcome = "right_win"
	OutcomeDraw     Outcome = "draw"
)

func (m LiveMatch) Outcome() Outcome {
	switch {
	case m.Left.Goals > m.Right.Goals:
		return OutcomeLeftWin
	case m.Right.Goals > m.Left.Goals:
		return OutcomeRightWin
	default:
		return OutcomeDraw
	}
}
