package rotation

import (
	"errors"
	"testing"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

type squad struct {
	gameID uuid.UUID
	teams  []models.Team
	byID   map[uuid.UUID]string
}

func newSquad(names ...string) squad {
	s := squad{gameID: uuid.New(), byID: map[uuid.UUID]string{}}
	for i, name := range names {
		t := models.Team{ID: uuid.New(), GameID: s.gameID, Name: name, Position: i}
		s.teams = append(s.teams, t)
		s.byID[t.ID] = name
	}
	return s
}

func (s squad) team(name string) models.Team {
	for _, t := range s.teams {
		if t.Name == name {
			return t
		}
	}
	panic("unknown team " + name)
}

func (s squad) live(left, right string, leftGoals, rightGoals int) models.LiveMatch {
	m := models.NewLiveMatch(s.gameID, s.team(left), s.team(right))
	m.Left.Goals = leftGoals
	m.Right.Goals = rightGoals
	m.IsLive = true
	return m
}

func (s squad) pairing(m models.LiveMatch) string {
	return s.byID[m.Left.TeamID] + "-" + s.byID[m.Right.TeamID]
}

func mustResolve(t *testing.T, in Input) Result {
	t.Helper()
	res, err := Resolve(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestResolveRecordDeltas(t *testing.T) {
	s := newSquad("A", "B", "C")

	tests := []struct {
		name       string
		left       int
		right      int
		wantLeft   models.Record
		wantRight  models.Record
		wantResult models.Outcome
	}{
		{
			name:       "left win",
			left:       2,
			right:      1,
			wantLeft:   models.Record{Games: 1, Wins: 1, Goals: 2, Conceded: 1, Points: 3},
			wantRight:  models.Record{Games: 1, Losses: 1, Goals: 1, Conceded: 2},
			wantResult: models.OutcomeLeftWin,
		},
		{
			name:       "right win",
			left:       0,
			right:      3,
			wantLeft:   models.Record{Games: 1, Losses: 1, Conceded: 3},
			wantRight:  models.Record{Games: 1, Wins: 1, Goals: 3, Points: 3},
			wantResult: models.OutcomeRightWin,
		},
		{
			name:       "draw",
			left:       1,
			right:      1,
			wantLeft:   models.Record{Games: 1, Draws: 1, Goals: 1, Conceded: 1, Points: 1},
			wantRight:  models.Record{Games: 1, Draws: 1, Goals: 1, Conceded: 1, Points: 1},
			wantResult: models.OutcomeDraw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := s.live("A", "B", tt.left, tt.right)
			res := mustResolve(t, Input{Match: m, Rule: models.ThreeWinnerStay3, Teams: s.teams})

			if res.Outcome != tt.wantResult {
				t.Fatalf("expected outcome %s, got %s", tt.wantResult, res.Outcome)
			}
			if len(res.Deltas) != 2 {
				t.Fatalf("expected deltas for exactly two teams, got %d", len(res.Deltas))
			}
			if res.Deltas[0].TeamID != s.team("A").ID || res.Deltas[0].Record != tt.wantLeft {
				t.Fatalf("unexpected left delta %+v", res.Deltas[0])
			}
			if res.Deltas[1].TeamID != s.team("B").ID || res.Deltas[1].Record != tt.wantRight {
				t.Fatalf("unexpected right delta %+v", res.Deltas[1])
			}
		})
	}
}

func TestResolveAlwaysResetsBoard(t *testing.T) {
	rules := []struct {
		rule  models.Rule
		teams []string
	}{
		{models.AfterTimeChangeSide, []string{"A", "B"}},
		{models.AfterTimeStaySide, []string{"A", "B"}},
		{models.ThreeOnly2Games, []string{"A", "B", "C"}},
		{models.ThreeWinnerStay2, []string{"A", "B", "C"}},
		{models.ThreeWinnerStayUnlimited, []string{"A", "B", "C"}},
		{models.FourOnly3Games, []string{"A", "B", "C", "D"}},
		{models.FourWinnerStay6, []string{"A", "B", "C", "D"}},
		{models.FourWinnerStayUnlimited, []string{"A", "B", "C", "D"}},
	}

	for _, r := range rules {
		for _, score := range [][2]int{{3, 1}, {0, 2}, {2, 2}} {
			s := newSquad(r.teams...)
			m := s.live("A", "B", score[0], score[1])
			m.MatchCount = 4

			res := mustResolve(t, Input{Match: m, Rule: r.rule, Teams: s.teams})

			if res.Match.Left.Goals != 0 || res.Match.Right.Goals != 0 {
				t.Fatalf("%s %v: expected scores reset", r.rule, score)
			}
			if res.Match.IsLive {
				t.Fatalf("%s %v: expected match to be idle", r.rule, score)
			}
			if res.Match.MatchCount != 5 {
				t.Fatalf("%s %v: expected match count 5, got %d", r.rule, score, res.Match.MatchCount)
			}
			if res.Match.Left.TeamID == res.Match.Right.TeamID {
				t.Fatalf("%s %v: expected distinct occupants", r.rule, score)
			}
		}
	}
}

func TestResolveRejectsIdleMatch(t *testing.T) {
	s := newSquad("A", "B", "C")
	m := s.live("A", "B", 0, 0)
	m.IsLive = false

	if _, err := Resolve(Input{Match: m, Rule: models.ThreeOnly2Games, Teams: s.teams}); !errors.Is(err, ErrNotLive) {
		t.Fatalf("expected ErrNotLive, got %v", err)
	}
}

func TestTwoTeamChangeSide(t *testing.T) {
	s := newSquad("A", "B")
	m := s.live("A", "B", 1, 0)
	m.Left.WinStreak = 2

	res := mustResolve(t, Input{Match: m, Rule: models.AfterTimeChangeSide, Teams: s.teams})

	if got := s.pairing(res.Match); got != "B-A" {
		t.Fatalf("expected sides swapped, got %s", got)
	}
	if res.Match.Left.WinStreak != 0 || res.Match.Right.WinStreak != 0 {
		t.Fatalf("expected streaks reset")
	}
	if res.Rotated() {
		t.Fatalf("expected no team brought on")
	}
}

func TestTwoTeamChangeSideTwiceRestoresSides(t *testing.T) {
	s := newSquad("A", "B")
	m := s.live("A", "B", 2, 1)
	m.Left.WinStreak = 1

	first := mustResolve(t, Input{Match: m, Rule: models.AfterTimeChangeSide, Teams: s.teams})
	if got := s.pairing(first.Match); got != "B-A" {
		t.Fatalf("after first match: expected B-A, got %s", got)
	}

	next, err := Start(first.Match)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	next.Left.Goals, next.Right.Goals = 0, 3

	second := mustResolve(t, Input{Match: next, Rule: models.AfterTimeChangeSide, Teams: s.teams})
	got := second.Match
	if p := s.pairing(got); p != "A-B" {
		t.Fatalf("after second match: expected A-B, got %s", p)
	}
	if got.Left.WinStreak != 0 || got.Right.WinStreak != 0 {
		t.Fatalf("expected streaks reset, got %d and %d", got.Left.WinStreak, got.Right.WinStreak)
	}
	if got.Left.Goals != 0 || got.Right.Goals != 0 || got.IsLive {
		t.Fatalf("expected an idle match with zero scores, got %+v", got)
	}
	if got.MatchCount != 2 {
		t.Fatalf("MatchCount = %d, want 2", got.MatchCount)
	}
}

func TestTwoTeamStaySide(t *testing.T) {
	s := newSquad("A", "B")
	m := s.live("A", "B", 0, 0)
	m.Left.WinStreak = 2

	res := mustResolve(t, Input{Match: m, Rule: models.AfterTimeStaySide, Teams: s.teams})

	if got := s.pairing(res.Match); got != "A-B" {
		t.Fatalf("expected sides kept, got %s", got)
	}
	if res.Match.Left.WinStreak != 2 {
		t.Fatalf("expected streak untouched, got %d", res.Match.Left.WinStreak)
	}
}

func TestThreeTeamOnlyTwoGamesCycle(t *testing.T) {
	s := newSquad("A", "B", "C")
	m := s.live("A", "B", 0, 0)

	want := []string{"A-C", "B-C", "B-A", "C-A", "C-B"}
	for i, pairing := range want {
		// results do not matter for this rule
		m.IsLive = true
		m.Left.Goals = i % 2
		res := mustResolve(t, Input{Match: m, Rule: models.ThreeOnly2Games, Teams: s.teams})
		m = res.Match
		if got := s.pairing(m); got != pairing {
			t.Fatalf("after match %d: expected %s, got %s", i+1, pairing, got)
		}
	}
}

func TestFourTeamOnlyThreeGamesCycle(t *testing.T) {
	s := newSquad("A", "B", "C", "D")
	m := s.live("A", "B", 0, 0)

	want := []struct {
		pairing string
		lastOut string
	}{
		{"A-C", "B"},
		{"A-D", "C"},
		{"B-D", "A"},
		{"C-D", "B"},
		{"C-A", "D"},
		{"C-B", "A"},
		{"D-B", "C"},
	}
	for i, w := range want {
		m.IsLive = true
		res := mustResolve(t, Input{Match: m, Rule: models.FourOnly3Games, Teams: s.teams})
		m = res.Match
		if got := s.pairing(m); got != w.pairing {
			t.Fatalf("after match %d: expected %s, got %s", i+1, w.pairing, got)
		}
		if got := s.byID[m.LastOutTeamID]; got != w.lastOut {
			t.Fatalf("after match %d: expected last out %s, got %s", i+1, w.lastOut, got)
		}
	}
}

func TestFourTeamOnlyThreeGamesOutsideThresholdsKeepsTeams(t *testing.T) {
	s := newSquad("A", "B", "C", "D")
	m := s.live("A", "B", 1, 0)
	m.Left.WinStreak = 3
	m.MatchCount = 5

	res := mustResolve(t, Input{Match: m, Rule: models.FourOnly3Games, Teams: s.teams})

	if res.Rotated() {
		t.Fatalf("expected no rotation, %s came on", s.byID[res.Incoming])
	}
	if got := s.pairing(res.Match); got != "A-B" {
		t.Fatalf("expected A-B, got %s", got)
	}
	if res.Match.Left.WinStreak != 3 || res.Match.MatchCount != 6 {
		t.Fatalf("unexpected match %+v", res.Match)
	}
	if len(res.Deltas) != 2 || res.Deltas[0].Record.Wins != 1 {
		t.Fatalf("expected the result recorded, got %+v", res.Deltas)
	}
}

func TestWinnerStaysUntilLimit(t *testing.T) {
	s := newSquad("A", "B", "C")
	m := s.live("A", "B", 2, 0)

	res := mustResolve(t, Input{Match: m, Rule: models.ThreeWinnerStay2, Teams: s.teams})
	if got := s.pairing(res.Match); got != "A-C" {
		t.Fatalf("expected loser replaced, got %s", got)
	}
	if res.Match.Left.WinStreak != 1 || res.Match.Right.WinStreak != 0 {
		t.Fatalf("unexpected streaks %d/%d", res.Match.Left.WinStreak, res.Match.Right.WinStreak)
	}
	if res.Replaced != models.SideRight || res.Outgoing != s.team("B").ID || res.Incoming != s.team("C").ID {
		t.Fatalf("unexpected rotation %+v", res)
	}

	m = res.Match
	m.IsLive = true
	m.Left.Goals = 1

	res = mustResolve(t, Input{Match: m, Rule: models.ThreeWinnerStay2, Teams: s.teams})
	if got := s.pairing(res.Match); got != "B-C" {
		t.Fatalf("expected winner rotated out at the limit, got %s", got)
	}
	if res.Match.Left.WinStreak != 0 || res.Match.Right.WinStreak != 0 {
		t.Fatalf("expected both streaks at zero, got %d/%d", res.Match.Left.WinStreak, res.Match.Right.WinStreak)
	}
}

func TestWinnerStaysLimitPerRule(t *testing.T) {
	tests := []struct {
		rule  models.Rule
		teams []string
		limit int
	}{
		{models.ThreeWinnerStay2, []string{"A", "B", "C"}, 2},
		{models.ThreeWinnerStay3, []string{"A", "B", "C"}, 3},
		{models.ThreeWinnerStay4, []string{"A", "B", "C"}, 4},
		{models.FourWinnerStay3, []string{"A", "B", "C", "D"}, 3},
		{models.FourWinnerStay4, []string{"A", "B", "C", "D"}, 4},
		{models.FourWinnerStay5, []string{"A", "B", "C", "D"}, 5},
		{models.FourWinnerStay6, []string{"A", "B", "C", "D"}, 6},
	}

	for _, tt := range tests {
		s := newSquad(tt.teams...)
		m := s.live("A", "B", 1, 0)
		champ := s.team("A").ID

		for win := 1; win <= tt.limit; win++ {
			res := mustResolve(t, Input{Match: m, Rule: tt.rule, Teams: s.teams})
			m = res.Match
			if win < tt.limit {
				if m.Left.TeamID != champ || m.Left.WinStreak != win {
					t.Fatalf("%s: after win %d expected A on with streak %d, got %s/%d",
						tt.rule, win, win, s.byID[m.Left.TeamID], m.Left.WinStreak)
				}
			} else if m.Occupies(champ) {
				t.Fatalf("%s: expected A to leave after %d wins", tt.rule, win)
			}
			m.IsLive = true
			m.Left.Goals = 1
		}
	}
}

func TestWinnerStaysUnlimitedNeverRotatesWinner(t *testing.T) {
	s := newSquad("A", "B", "C", "D")
	m := s.live("A", "B", 1, 0)

	for i := 1; i <= 10; i++ {
		res := mustResolve(t, Input{Match: m, Rule: models.FourWinnerStayUnlimited, Teams: s.teams})
		m = res.Match
		if s.byID[m.Left.TeamID] != "A" || m.Left.WinStreak != i {
			t.Fatalf("after win %d: expected A on with streak %d, got %s/%d", i, i, s.byID[m.Left.TeamID], m.Left.WinStreak)
		}
		m.IsLive = true
		m.Left.Goals = 1
	}
}

func TestFourTeamWinnerStaysSkipsLastOut(t *testing.T) {
	s := newSquad("A", "B", "C", "D")
	m := s.live("A", "B", 1, 0)
	m.LastOutTeamID = s.team("C").ID

	res := mustResolve(t, Input{Match: m, Rule: models.FourWinnerStay3, Teams: s.teams})

	if got := s.pairing(res.Match); got != "A-D" {
		t.Fatalf("expected D to come on, got %s", got)
	}
	if res.Match.LastOutTeamID != s.team("B").ID {
		t.Fatalf("expected B recorded as last out")
	}
}

func TestWinnerStaysDrawReplacesLowerStreak(t *testing.T) {
	s := newSquad("A", "B", "C")
	m := s.live("A", "B", 1, 1)
	m.Left.WinStreak = 1

	res := mustResolve(t, Input{Match: m, Rule: models.ThreeWinnerStay3, Teams: s.teams})

	if got := s.pairing(res.Match); got != "A-C" {
		t.Fatalf("expected lower streak replaced, got %s", got)
	}
	if res.Match.Left.WinStreak != 1 {
		t.Fatalf("expected draw to leave the streak alone, got %d", res.Match.Left.WinStreak)
	}
	if res.NeedsStayChoice {
		t.Fatalf("expected no stay choice")
	}
}

func TestWinnerStaysDrawEqualStreaksAsksOperator(t *testing.T) {
	for _, rule := range []models.Rule{models.ThreeWinnerStay2, models.ThreeWinnerStayUnlimited, models.FourWinnerStay4} {
		s := newSquad("A", "B", "C", "D")
		m := s.live("A", "B", 2, 2)

		res := mustResolve(t, Input{Match: m, Rule: rule, Teams: s.teams})

		if !res.NeedsStayChoice || !res.Match.AwaitingStayChoice {
			t.Fatalf("%s: expected a pending stay choice", rule)
		}
		if res.Rotated() || s.pairing(res.Match) != "A-B" {
			t.Fatalf("%s: expected no automatic rotation", rule)
		}
		if res.Match.MatchCount != 1 || res.Match.Left.Goals != 0 {
			t.Fatalf("%s: expected the finished match to be recorded", rule)
		}

		if _, err := Start(res.Match); !errors.Is(err, ErrStayChoicePending) {
			t.Fatalf("%s: expected start to be blocked, got %v", rule, err)
		}

		chosen, err := ResolveStayChoice(res.Match, rule, s.teams, models.SideRight)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", rule, err)
		}
		if got := s.pairing(chosen.Match); got != "C-B" {
			t.Fatalf("%s: expected left replaced, got %s", rule, got)
		}
		if chosen.Match.AwaitingStayChoice || chosen.Match.MatchCount != 1 {
			t.Fatalf("%s: unexpected match after choice %+v", rule, chosen.Match)
		}
	}
}

func TestFourTeamUnlimitedDrawKeepsOccupants(t *testing.T) {
	s := newSquad("A", "B", "C", "D")
	m := s.live("A", "B", 0, 0)

	res := mustResolve(t, Input{Match: m, Rule: models.FourWinnerStayUnlimited, Teams: s.teams})

	if res.Rotated() || res.NeedsStayChoice || s.pairing(res.Match) != "A-B" {
		t.Fatalf("expected no rotation and no choice, got %+v", res)
	}
}

func TestResolveWithoutCandidateIsNoOp(t *testing.T) {
	s := newSquad("A", "B")
	m := s.live("A", "B", 3, 0)

	res := mustResolve(t, Input{Match: m, Rule: models.ThreeWinnerStay2, Teams: s.teams})

	if res.Rotated() || s.pairing(res.Match) != "A-B" {
		t.Fatalf("expected occupants kept, got %s", s.pairing(res.Match))
	}
	if res.Match.MatchCount != 1 || len(res.Deltas) != 2 {
		t.Fatalf("expected the match still recorded")
	}
}

func TestResolveStayChoiceWithoutPendingDraw(t *testing.T) {
	s := newSquad("A", "B", "C")
	m := s.live("A", "B", 0, 0)

	if _, err := ResolveStayChoice(m, models.ThreeWinnerStay2, s.teams, models.SideLeft); !errors.Is(err, ErrNoStayChoice) {
		t.Fatalf("expected ErrNoStayChoice, got %v", err)
	}
}
