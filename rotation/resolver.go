// Package rotation decides what happens to the scoreboard when a match ends:
// the result line of both teams, which team leaves the field, and who comes on.
package rotation

import (
	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

const (
	winPoints  = 3
	drawPoints = 1
)

// Input is a frozen snapshot of a finished match.
type Input struct {
	Match models.LiveMatch
	Rule  models.Rule
	// Teams is the candidate order for the next entrant, usually the
	// standings taken before the finished match is recorded.
	Teams []models.Team
}

// Delta is the record change a finished match adds to one team.
type Delta struct {
	TeamID uuid.UUID
	Record models.Record
}

// Result describes the scoreboard after a match is resolved.
type Result struct {
	Match   models.LiveMatch
	Outcome models.Outcome
	Deltas  []Delta

	// Replaced is the side that received a new team; empty when nobody
	// came on.
	Replaced models.Side
	Outgoing uuid.UUID
	Incoming uuid.UUID

	// NeedsStayChoice is set when a draw between equal streaks has to be
	// settled by the operator through ResolveStayChoice.
	NeedsStayChoice bool
}

// Rotated reports whether a team was brought on.
func (r Result) Rotated() bool {
	return r.Replaced != ""
}

// Resolve records the outcome of in.Match and applies the rotation policy of
// in.Rule. The returned match is idle, with zero scores and the match counter
// advanced. When no candidate team is available the occupants stay put.
func Resolve(in Input) (Result, error) {
	m := in.Match
	if !m.IsLive {
		return Result{}, ErrNotLive
	}
	if in.Rule == nil {
		return Result{}, ErrUnknownRule
	}

	res := Result{Outcome: m.Outcome()}
	res.Deltas = recordDeltas(m, res.Outcome)

	r := resolver{match: &m, teams: in.Teams, res: &res}
	switch rule := in.Rule.(type) {
	case models.TwoTeamRule:
		r.twoTeams(rule)
	case models.ThreeTeamRule:
		r.threeTeams(rule)
	case models.FourTeamRule:
		r.fourTeams(rule)
	default:
		return Result{}, ErrUnknownRule
	}

	m.Left.Goals = 0
	m.Right.Goals = 0
	m.IsLive = false
	m.MatchCount++
	res.Match = m
	return res, nil
}

// ResolveStayChoice settles a pending draw: stay keeps its team and streak,
// the opposite side is handed to the next candidate. The match counter is
// not advanced again.
func ResolveStayChoice(match models.LiveMatch, rule models.Rule, teams []models.Team, stay models.Side) (Result, error) {
	if !match.AwaitingStayChoice {
		return Result{}, ErrNoStayChoice
	}
	if rule == nil {
		return Result{}, ErrUnknownRule
	}

	res := Result{Outcome: models.OutcomeDraw}
	r := resolver{match: &match, teams: teams, res: &res}
	r.replace(stay.Opposite(), rule.TeamQuantity() == models.FourTeams)
	match.AwaitingStayChoice = false
	res.Match = match
	return res, nil
}

func recordDeltas(m models.LiveMatch, outcome models.Outcome) []Delta {
	left := models.Record{Games: 1, Goals: m.Left.Goals, Conceded: m.Right.Goals}
	right := models.Record{Games: 1, Goals: m.Right.Goals, Conceded: m.Left.Goals}

	switch outcome {
	case models.OutcomeLeftWin:
		left.Wins, left.Points = 1, winPoints
		right.Losses = 1
	case models.OutcomeRightWin:
		right.Wins, right.Points = 1, winPoints
		left.Losses = 1
	default:
		left.Draws, left.Points = 1, drawPoints
		right.Draws, right.Points = 1, drawPoints
	}

	return []Delta{
		{TeamID: m.Left.TeamID, Record: left},
		{TeamID: m.Right.TeamID, Record: right},
	}
}

type resolver struct {
	match *models.LiveMatch
	teams []models.Team
	res   *Result
}

// next returns the first team in candidate order that is neither on the
// field nor, when skipLastOut is set, the team that sat out last time.
func (r *resolver) next(skipLastOut bool) (models.Team, bool) {
	for _, t := range r.teams {
		if r.match.Occupies(t.ID) {
			continue
		}
		if skipLastOut && t.ID == r.match.LastOutTeamID {
			continue
		}
		return t, true
	}
	return models.Team{}, false
}

// replace hands side to the next candidate. It reports false, leaving the
// match untouched, when there is nobody to bring on.
func (r *resolver) replace(side models.Side, trackLastOut bool) bool {
	incoming, ok := r.next(trackLastOut)
	if !ok {
		return false
	}
	slot := r.match.Slot(side)
	r.res.Replaced = side
	r.res.Outgoing = slot.TeamID
	r.res.Incoming = incoming.ID
	if trackLastOut {
		r.match.LastOutTeamID = slot.TeamID
	}
	*slot = models.Occupy(incoming)
	return true
}

func (r *resolver) twoTeams(rule models.TwoTeamRule) {
	if rule != models.AfterTimeChangeSide {
		return
	}
	m := r.match
	m.Left, m.Right = m.Right, m.Left
	m.Left.WinStreak = 0
	m.Right.WinStreak = 0
}

func (r *resolver) threeTeams(rule models.ThreeTeamRule) {
	if rule == models.ThreeOnly2Games {
		r.onlyN(r.higherCounter(), false)
		return
	}
	r.winnerStays(rule, false)
}

func (r *resolver) fourTeams(rule models.FourTeamRule) {
	if rule == models.FourOnly3Games {
		if out, ok := r.fourTeamOnlyThreeSide(); ok {
			r.onlyN(out, true)
		}
		return
	}
	r.winnerStays(rule, true)
}

// higherCounter picks the side that has been on longer; ties go right.
func (r *resolver) higherCounter() models.Side {
	if r.match.Left.WinStreak > r.match.Right.WinStreak {
		return models.SideLeft
	}
	return models.SideRight
}

// fourTeamOnlyThreeSide picks the side that leaves from the streak
// thresholds. Streaks outside them, e.g. after the rule was changed
// mid-tournament, rotate nobody.
func (r *resolver) fourTeamOnlyThreeSide() (models.Side, bool) {
	left, right := r.match.Left.WinStreak, r.match.Right.WinStreak
	switch {
	case left == 0 && right == 0:
		return models.SideRight, true
	case left == 1:
		return models.SideRight, true
	case left == 2:
		return models.SideLeft, true
	case right == 1:
		return models.SideLeft, true
	case right == 2:
		return models.SideRight, true
	}
	return "", false
}

// onlyN rotates regardless of the result. WinStreak counts consecutive
// matches played, so the side that stays on gets one more.
func (r *resolver) onlyN(out models.Side, trackLastOut bool) {
	if !r.replace(out, trackLastOut) {
		return
	}
	r.match.Slot(out.Opposite()).WinStreak++
}

func (r *resolver) winnerStays(rule models.Rule, fourTeams bool) {
	limit, unlimited, _ := models.WinnerStayLimit(rule)

	var winner models.Side
	switch r.res.Outcome {
	case models.OutcomeLeftWin:
		winner = models.SideLeft
	case models.OutcomeRightWin:
		winner = models.SideRight
	default:
		if unlimited && fourTeams {
			return
		}
		r.draw(fourTeams)
		return
	}
	loser := winner.Opposite()

	w := r.match.Slot(winner)
	w.WinStreak++
	if !unlimited && w.WinStreak >= limit {
		if r.replace(winner, fourTeams) {
			r.match.Slot(loser).WinStreak = 0
		}
		return
	}
	r.replace(loser, fourTeams)
}

// draw replaces the side with the shorter streak. Equal streaks are left to
// the operator.
func (r *resolver) draw(fourTeams bool) {
	left, right := r.match.Left.WinStreak, r.match.Right.WinStreak
	switch {
	case left < right:
		r.replace(models.SideLeft, fourTeams)
	case right < left:
		r.replace(models.SideRight, fourTeams)
	default:
		if _, ok := r.next(fourTeams); !ok {
			return
		}
		r.match.AwaitingStayChoice = true
		r.res.NeedsStayChoice = true
	}
}
