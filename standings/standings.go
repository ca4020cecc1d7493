// Package standings orders teams and players for the live scoreboard and the
// results ledger. Both views use the same comparison chain.
package standings

import (
	"sort"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

// TeamLess orders by points desc, goal difference desc, name asc.
func TeamLess(a, b models.Team) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference() != b.GoalDifference() {
		return a.GoalDifference() > b.GoalDifference()
	}
	return a.Name < b.Name
}

// RankTeams returns a sorted copy of teams.
func RankTeams(teams []models.Team) []models.Team {
	ranked := make([]models.Team, len(teams))
	copy(ranked, teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		return TeamLess(ranked[i], ranked[j])
	})
	return ranked
}

// PlayerLine is a player with the team figures the ranking needs.
type PlayerLine struct {
	models.Player
	TeamName           string           `json:"team_name"`
	TeamColor          models.TeamColor `json:"team_color"`
	TeamPoints         int              `json:"team_points"`
	TeamGoalDifference int              `json:"team_goal_difference"`
}

// PlayerLess compares goals, assists, saves, other actions, team points and
// team goal difference (all desc), then team name and player name asc.
func PlayerLess(a, b PlayerLine) bool {
	if a.Goals != b.Goals {
		return a.Goals > b.Goals
	}
	if a.Assists != b.Assists {
		return a.Assists > b.Assists
	}
	if a.Saves != b.Saves {
		return a.Saves > b.Saves
	}
	if a.Other() != b.Other() {
		return a.Other() > b.Other()
	}
	if a.TeamPoints != b.TeamPoints {
		return a.TeamPoints > b.TeamPoints
	}
	if a.TeamGoalDifference != b.TeamGoalDifference {
		return a.TeamGoalDifference > b.TeamGoalDifference
	}
	if a.TeamName != b.TeamName {
		return a.TeamName < b.TeamName
	}
	return a.Name < b.Name
}

// Lines joins players to their teams. Players whose team is unknown are kept
// with empty team figures.
func Lines(teams []models.Team, players []models.Player) []PlayerLine {
	byID := make(map[uuid.UUID]models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	lines := make([]PlayerLine, 0, len(players))
	for _, p := range players {
		line := PlayerLine{Player: p}
		if t, ok := byID[p.TeamID]; ok {
			line.TeamName = t.Name
			line.TeamColor = t.Color
			line.TeamPoints = t.Points
			line.TeamGoalDifference = t.GoalDifference()
		}
		lines = append(lines, line)
	}
	return lines
}

// RankPlayers joins and sorts players in one step.
func RankPlayers(teams []models.Team, players []models.Player) []PlayerLine {
	lines := Lines(teams, players)
	sort.SliceStable(lines, func(i, j int) bool {
		return PlayerLess(lines[i], lines[j])
	})
	return lines
}
