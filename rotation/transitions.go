package rotation

import (
	"errors"

	"github.com/Dosada05/pickup-scoreboard/models"
)

var (
	ErrNotLive           = errors.New("match is not live")
	ErrAlreadyLive       = errors.New("match is already live")
	ErrStayChoicePending = errors.New("a staying team has to be chosen first")
	ErrNoStayChoice      = errors.New("no staying team choice is pending")
	ErrSlotsNotDistinct  = errors.New("both sides need two different teams")
	ErrTeamOnOtherSide   = errors.New("team already plays on the other side")
	ErrForeignTeam       = errors.New("team does not belong to this game")
	ErrChangeNotAllowed  = errors.New("teams can only be changed with more than two teams")
	ErrUnknownRule       = errors.New("unknown rotation rule")
)

// Start puts an idle match on the clock.
func Start(m models.LiveMatch) (models.LiveMatch, error) {
	if m.IsLive {
		return m, ErrAlreadyLive
	}
	if m.AwaitingStayChoice {
		return m, ErrStayChoicePending
	}
	if m.Left.TeamID == m.Right.TeamID {
		return m, ErrSlotsNotDistinct
	}
	m.IsLive = true
	return m, nil
}

// ChangeTeam seats t on side of an idle match. Both sides start over with
// zero goals and streaks.
func ChangeTeam(m models.LiveMatch, q models.TeamQuantity, side models.Side, t models.Team) (models.LiveMatch, error) {
	if q <= models.TwoTeams {
		return m, ErrChangeNotAllowed
	}
	if m.IsLive {
		return m, ErrAlreadyLive
	}
	if t.GameID != m.GameID {
		return m, ErrForeignTeam
	}
	if m.Slot(side.Opposite()).TeamID == t.ID {
		return m, ErrTeamOnOtherSide
	}

	*m.Slot(side) = models.Occupy(t)
	other := m.Slot(side.Opposite())
	other.Goals = 0
	other.WinStreak = 0
	return m, nil
}

// SwapSides exchanges everything the two slots hold.
func SwapSides(m models.LiveMatch) models.LiveMatch {
	m.Left, m.Right = m.Right, m.Left
	return m
}
