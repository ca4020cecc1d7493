package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/repositories"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Broadcaster publishes a message to every subscriber of a room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToRoom(string, interface{}) {}

// Actor serialises every mutation of scoreboard state. All services that
// change a game share one Actor.
type Actor struct {
	mu sync.Mutex
}

func NewActor() *Actor {
	return &Actor{}
}

func (a *Actor) do(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn()
}

// mapRepoError turns repository lookups that found nothing into the service
// sentinels; anything else is wrapped with op.
func mapRepoError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrLiveMatchNotFound):
		return fmt.Errorf("%w: live match", ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// normalizeName trims and composes a user supplied name so that visually
// equal names compare equal.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// recordTeamHistory adds delta to the ledger entry of teamID, opening one if
// the team has none yet.
func recordTeamHistory(ctx context.Context, store *repositories.Store, team models.Team, delta models.Record) error {
	h, err := store.TeamHistory.GetByOriginalID(ctx, team.ID)
	if errors.Is(err, repositories.ErrTeamHistoryNotFound) {
		fresh := models.NewTeamHistory(team)
		fresh.Record = delta
		return store.TeamHistory.Create(ctx, &fresh)
	}
	if err != nil {
		return err
	}
	h.Record = h.Record.Add(delta)
	return store.TeamHistory.Update(ctx, h)
}

// shiftPlayerHistory moves one counter of a player's ledger entry by diff,
// never below zero.
func shiftPlayerHistory(ctx context.Context, store *repositories.Store, gameID uuid.UUID, player models.Player, kind models.StatKind, diff int) error {
	if diff == 0 {
		return nil
	}
	h, err := store.PlayerHistory.GetByOriginalID(ctx, player.ID)
	if errors.Is(err, repositories.ErrPlayerHistoryNotFound) {
		var s models.Stats
		s.Set(kind, max(diff, 0))
		fresh := models.NewPlayerHistory(player, gameID, s)
		return store.PlayerHistory.Create(ctx, &fresh)
	}
	if err != nil {
		return err
	}
	h.Stats.Set(kind, max(h.Stats.Get(kind)+diff, 0))
	return store.PlayerHistory.Update(ctx, h)
}

func derefTeams(in []*models.Team) []models.Team {
	out := make([]models.Team, 0, len(in))
	for _, t := range in {
		out = append(out, *t)
	}
	return out
}

func derefPlayers(in []*models.Player) []models.Player {
	out := make([]models.Player, 0, len(in))
	for _, p := range in {
		out = append(out, *p)
	}
	return out
}
