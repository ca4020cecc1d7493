package services

import (
	"errors"
	"testing"

	"github.com/Dosada05/pickup-scoreboard/models"
)

var (
	limited = models.Entitlement{}
	premium = models.Entitlement{Billing: models.BillingSubscribe}
)

func TestResultsAreRankedLedger(t *testing.T) {
	f := newFixture(t)
	g := f.createGame(t, 2, "")
	bravo := g.team("Bravo")
	bob := bravo.player("Bravo1")

	f.matches.ToggleStart(f.ctx, g.Game.ID)
	f.matches.RecordStat(f.ctx, g.Game.ID, StatInput{TeamID: bravo.ID, PlayerID: bob.ID, Kind: models.StatGoal})
	f.matches.ConfirmFinish(f.ctx, g.Game.ID)
	f.matches.ClearResults(f.ctx, g.Game.ID)

	res, err := f.results.Results(f.ctx, g.Game.ID, limited)
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}
	if !res.Limited {
		t.Fatal("expected limited results without a license")
	}
	if len(res.Teams) != 2 || res.Teams[0].ID != bravo.ID || res.Teams[0].Points != 3 {
		t.Fatalf("unexpected team ledger %+v", res.Teams)
	}
	if len(res.Players) != 4 || res.Players[0].ID != bob.ID || res.Players[0].Goals != 1 {
		t.Fatalf("unexpected player ledger %+v", res.Players)
	}
	if res.Players[0].TeamName != "Bravo" || res.Players[0].TeamPoints != 3 {
		t.Fatalf("player line missing team figures: %+v", res.Players[0])
	}

	res, _ = f.results.Results(f.ctx, g.Game.ID, premium)
	if res.Limited {
		t.Fatal("premium results should not be limited")
	}
}

func TestSetHistoryPlayerStatRequiresPremium(t *testing.T) {
	f := newFixture(t)
	g := f.createGame(t, 2, "")
	amy := g.team("Alpha").player("Alpha1")

	_, err := f.results.SetHistoryPlayerStat(f.ctx, g.Game.ID, amy.ID, models.StatSave, 5, limited)
	if !errors.Is(err, ErrPremiumRequired) {
		t.Fatalf("limited SetHistoryPlayerStat() = %v, want ErrPremiumRequired", err)
	}

	res, err := f.results.SetHistoryPlayerStat(f.ctx, g.Game.ID, amy.ID, models.StatSave, 5, premium)
	if err != nil {
		t.Fatalf("SetHistoryPlayerStat() error = %v", err)
	}
	if res.Players[0].ID != amy.ID || res.Players[0].Saves != 5 {
		t.Fatalf("unexpected ledger head %+v", res.Players[0])
	}

	current, _ := f.store.Players.GetByID(f.ctx, amy.ID)
	if current.Saves != 0 {
		t.Fatal("ledger corrections must not touch the live player")
	}

	other := f.createGame(t, 2, "")
	_, err = f.results.SetHistoryPlayerStat(f.ctx, other.Game.ID, amy.ID, models.StatSave, 1, premium)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("cross-game SetHistoryPlayerStat() = %v, want ErrPlayerNotFound", err)
	}
}

func TestClearHistoryDropsRemovedPlayers(t *testing.T) {
	f := newFixture(t)
	g := f.createGame(t, 2, "")
	alpha := g.team("Alpha")
	amy, ann := alpha.player("Alpha1"), alpha.player("Alpha2")

	f.matches.SetPlayerStat(f.ctx, g.Game.ID, amy.ID, models.StatGoal, 3)
	f.matches.SetPlayerStat(f.ctx, g.Game.ID, ann.ID, models.StatGoal, 1)
	f.matches.ToggleStart(f.ctx, g.Game.ID)
	f.matches.ConfirmFinish(f.ctx, g.Game.ID)

	// remove Ann from the roster; her ledger entry stays until history is cleared
	if _, err := f.games.Update(f.ctx, g.Game.ID, UpdateGameInput{
		Name:            g.Game.Name,
		DurationMinutes: intPtr(g.Game.DurationMinutes),
		Teams:           []TeamInput{{ID: &alpha.ID, Name: alpha.Name, Players: []PlayerInput{{ID: &ann.ID}}}},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	before, _ := f.results.Results(f.ctx, g.Game.ID, premium)
	if len(before.Players) != 4 {
		t.Fatalf("expected removed player to stay in the ledger, got %d", len(before.Players))
	}

	res, err := f.results.ClearHistory(f.ctx, g.Game.ID, premium)
	if err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}
	if len(res.Players) != 3 {
		t.Fatalf("expected removed player dropped, got %d players", len(res.Players))
	}
	for _, p := range res.Players {
		if p.Stats != (models.Stats{}) {
			t.Fatalf("player %s not cleared", p.Name)
		}
	}
	for _, team := range res.Teams {
		if team.Record != (models.Record{}) {
			t.Fatalf("team %s not cleared", team.Name)
		}
	}

	// the working table is untouched
	current, _ := f.store.Players.GetByID(f.ctx, amy.ID)
	if current.Goals != 3 {
		t.Fatalf("live goals = %d, want 3", current.Goals)
	}
}
