package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/pickup-scoreboard/config"
	"github.com/Dosada05/pickup-scoreboard/live"
	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/repositories"
	"github.com/google/uuid"
)

type recordingHub struct {
	mu       sync.Mutex
	messages []live.Message
}

func (h *recordingHub) BroadcastToRoom(_ string, message interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := message.(live.Message); ok {
		h.messages = append(h.messages, m)
	}
}

func (h *recordingHub) count(t live.MessageType) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.messages {
		if m.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	ctx     context.Context
	store   *repositories.Store
	hub     *recordingHub
	clock   *MatchClock
	games   GameService
	matches MatchService
	results ResultsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repositories.NewMemoryStore()
	actor := NewActor()
	hub := &recordingHub{}

	clock, err := NewMatchClock(hub, logger)
	if err != nil {
		t.Fatalf("NewMatchClock() error = %v", err)
	}
	t.Cleanup(func() { _ = clock.Shutdown() })

	return &fixture{
		ctx:     context.Background(),
		store:   store,
		hub:     hub,
		clock:   clock,
		games:   NewGameService(store, actor, config.DefaultGameDefaults(), logger),
		matches: NewMatchService(store, actor, clock, NewEffectQueue(), hub, logger),
		results: NewResultsService(store, actor, logger),
	}
}

func intPtr(n int) *int { return &n }

var teamNames = []string{"Alpha", "Bravo", "Charlie", "Delta"}

// createGame sets up a game whose teams each have two players, named after
// the team ("Alpha1", "Alpha2").
func (f *fixture) createGame(t *testing.T, quantity int, rule string) *GameDetails {
	t.Helper()
	in := CreateGameInput{
		Name:            "Sunday Five",
		TeamQuantity:    quantity,
		Rule:            rule,
		DurationMinutes: intPtr(7),
	}
	for _, name := range teamNames[:quantity] {
		in.Teams = append(in.Teams, TeamInput{
			Name:    name,
			Players: []PlayerInput{{Name: name + "1"}, {Name: name + "2"}},
		})
	}
	g, err := f.games.Create(f.ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return g
}

func (g *GameDetails) team(name string) TeamDetails {
	for _, td := range g.Teams {
		if td.Name == name {
			return td
		}
	}
	panic("unknown team " + name)
}

func (td TeamDetails) player(name string) models.Player {
	for _, p := range td.Players {
		if p.Name == name {
			return p
		}
	}
	panic("unknown player " + name)
}

func (f *fixture) teamRecord(t *testing.T, id uuid.UUID) models.Record {
	t.Helper()
	team, err := f.store.Teams.GetByID(f.ctx, id)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	return team.Record
}

func (f *fixture) playerHistory(t *testing.T, id uuid.UUID) models.Stats {
	t.Helper()
	h, err := f.store.PlayerHistory.GetByOriginalID(f.ctx, id)
	if err != nil {
		t.Fatalf("get player history: %v", err)
	}
	return h.Stats
}
