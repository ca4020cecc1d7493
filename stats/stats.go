// Package stats applies scoring events to players and the live score, and
// picks the best players of a tournament.
package stats

import (
	"errors"
	"fmt"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/standings"
	"github.com/google/uuid"
)

var (
	ErrTeamNotPlaying  = errors.New("team is not on the scoreboard")
	ErrPlayerNotInTeam = errors.New("player does not belong to the team")
	ErrNegativeValue   = errors.New("value must not be negative")
)

// Event is a single scoring action credited to one player of one team.
type Event struct {
	TeamID   uuid.UUID
	PlayerID uuid.UUID
	Kind     models.StatKind
}

// Apply credits ev to player and, for goals, to the scoring side of match.
// The inputs are not modified; updated copies are returned.
func Apply(match models.LiveMatch, player models.Player, ev Event) (models.LiveMatch, models.Player, error) {
	if player.ID != ev.PlayerID || player.TeamID != ev.TeamID {
		return match, player, ErrPlayerNotInTeam
	}
	if ev.Kind == models.StatGoal {
		side, ok := match.SideOf(ev.TeamID)
		if !ok {
			return match, player, fmt.Errorf("%w: %s", ErrTeamNotPlaying, ev.TeamID)
		}
		match.Slot(side).Goals++
	}
	player.Stats.Set(ev.Kind, player.Stats.Get(ev.Kind)+1)
	return match, player, nil
}

// OwnGoal credits a goal to teamID's side without touching any player.
func OwnGoal(match models.LiveMatch, teamID uuid.UUID) (models.LiveMatch, error) {
	side, ok := match.SideOf(teamID)
	if !ok {
		return match, fmt.Errorf("%w: %s", ErrTeamNotPlaying, teamID)
	}
	match.Slot(side).Goals++
	return match, nil
}

// SetExact replaces one counter of player.
func SetExact(player models.Player, kind models.StatKind, value int) (models.Player, error) {
	if value < 0 {
		return player, ErrNegativeValue
	}
	player.Stats.Set(kind, value)
	return player, nil
}

// SetScore replaces the live goals of one side.
func SetScore(match models.LiveMatch, side models.Side, value int) (models.LiveMatch, error) {
	if value < 0 {
		return match, ErrNegativeValue
	}
	match.Slot(side).Goals = value
	return match, nil
}

// Category labels an entry of the best players list.
type Category string

const (
	CategoryBestPlayer Category = "best_player"
	CategoryGoals      Category = "goals"
	CategoryAssists    Category = "assists"
	CategorySaves      Category = "saves"
	CategoryDribbles   Category = "dribbles"
	CategoryPasses     Category = "passes"
	CategoryShots      Category = "shots"
)

type BestPlayer struct {
	Category Category             `json:"category"`
	Value    int                  `json:"value"`
	Player   standings.PlayerLine `json:"player"`
}

// Score is the weighted overall contribution of s.
func Score(s models.Stats) int {
	return s.Goals*3 + s.Assists*2 + s.Saves*2 + s.Dribbles + s.Passes + s.Shots
}

var categories = []struct {
	category Category
	kind     models.StatKind
}{
	{CategoryGoals, models.StatGoal},
	{CategoryAssists, models.StatAssist},
	{CategorySaves, models.StatSave},
	{CategoryDribbles, models.StatDribble},
	{CategoryPasses, models.StatPass},
	{CategoryShots, models.StatShot},
}

// Best returns the overall best player followed by the leader of each
// category that has a nonzero value. Ties go to the first player in lines,
// so callers should pass players in leaderboard order.
func Best(lines []standings.PlayerLine) []BestPlayer {
	if len(lines) == 0 {
		return nil
	}

	out := make([]BestPlayer, 0, len(categories)+1)

	best := 0
	for i := 1; i < len(lines); i++ {
		if Score(lines[i].Stats) > Score(lines[best].Stats) {
			best = i
		}
	}
	out = append(out, BestPlayer{Category: CategoryBestPlayer, Value: Score(lines[best].Stats), Player: lines[best]})

	for _, c := range categories {
		leader := -1
		for i, line := range lines {
			v := line.Stats.Get(c.kind)
			if v <= 0 {
				continue
			}
			if leader < 0 || v > lines[leader].Stats.Get(c.kind) {
				leader = i
			}
		}
		if leader >= 0 {
			out = append(out, BestPlayer{Category: c.category, Value: lines[leader].Stats.Get(c.kind), Player: lines[leader]})
		}
	}
	return out
}
