package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/repositories"
	"github.com/Dosada05/pickup-scoreboard/standings"
	"github.com/google/uuid"
)

// Results is the all-time ledger of a game, ranked like the live table.
type Results struct {
	Game    *models.Game           `json:"game"`
	Teams   []models.Team          `json:"teams"`
	Players []standings.PlayerLine `json:"players"`
	Limited bool                   `json:"limited"`
}

type ResultsService interface {
	Results(ctx context.Context, gameID uuid.UUID, ent models.Entitlement) (*Results, error)
	ClearHistory(ctx context.Context, gameID uuid.UUID, ent models.Entitlement) (*Results, error)
	SetHistoryPlayerStat(ctx context.Context, gameID, playerID uuid.UUID, kind models.StatKind, value int, ent models.Entitlement) (*Results, error)
}

type resultsService struct {
	store  *repositories.Store
	actor  *Actor
	logger *slog.Logger
}

func NewResultsService(store *repositories.Store, actor *Actor, logger *slog.Logger) ResultsService {
	return &resultsService{store: store, actor: actor, logger: logger}
}

func (s *resultsService) Results(ctx context.Context, gameID uuid.UUID, ent models.Entitlement) (*Results, error) {
	game, err := s.store.Games.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("get game", err)
	}
	teamRows, err := s.store.TeamHistory.ListByGame(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("list team history", err)
	}
	playerRows, err := s.store.PlayerHistory.ListByGame(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("list player history", err)
	}

	teams := make([]models.Team, 0, len(teamRows))
	for _, h := range teamRows {
		teams = append(teams, h.AsTeam())
	}
	players := make([]models.Player, 0, len(playerRows))
	for _, h := range playerRows {
		players = append(players, h.AsPlayer())
	}

	return &Results{
		Game:    game,
		Teams:   standings.RankTeams(teams),
		Players: standings.RankPlayers(teams, players),
		Limited: ent.Limited(),
	}, nil
}

// ClearHistory zeroes the ledger. Entries of players that were removed from
// the roster are dropped instead.
func (s *resultsService) ClearHistory(ctx context.Context, gameID uuid.UUID, ent models.Entitlement) (*Results, error) {
	err := s.actor.do(func() error {
		if _, err := s.store.Games.GetByID(ctx, gameID); err != nil {
			return mapRepoError("get game", err)
		}

		teams, err := s.store.TeamHistory.ListByGame(ctx, gameID)
		if err != nil {
			return mapRepoError("list team history", err)
		}
		for _, h := range teams {
			h.Record = models.Record{}
			if err := s.store.TeamHistory.Update(ctx, h); err != nil {
				return mapRepoError("clear team history", err)
			}
		}

		players, err := s.store.PlayerHistory.ListByGame(ctx, gameID)
		if err != nil {
			return mapRepoError("list player history", err)
		}
		dropped := 0
		for _, h := range players {
			_, err := s.store.Players.GetByID(ctx, h.OriginalID)
			switch {
			case errors.Is(err, repositories.ErrPlayerNotFound):
				if err := s.store.PlayerHistory.DeleteByOriginalID(ctx, h.OriginalID); err != nil {
					return mapRepoError("drop player history", err)
				}
				dropped++
				continue
			case err != nil:
				return mapRepoError("get player", err)
			}
			h.Stats = models.Stats{}
			if err := s.store.PlayerHistory.Update(ctx, h); err != nil {
				return mapRepoError("clear player history", err)
			}
		}

		s.logger.Info("history cleared", slog.String("game_id", gameID.String()), slog.Int("dropped_players", dropped))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Results(ctx, gameID, ent)
}

// SetHistoryPlayerStat corrects one ledger counter. playerID is the id of the
// live player the entry belongs to.
func (s *resultsService) SetHistoryPlayerStat(ctx context.Context, gameID, playerID uuid.UUID, kind models.StatKind, value int, ent models.Entitlement) (*Results, error) {
	if !ent.IsPremium() {
		return nil, ErrPremiumRequired
	}
	if value < 0 {
		return nil, ErrNegativeValue
	}

	err := s.actor.do(func() error {
		h, err := s.store.PlayerHistory.GetByOriginalID(ctx, playerID)
		if errors.Is(err, repositories.ErrPlayerHistoryNotFound) {
			return ErrPlayerNotFound
		}
		if err != nil {
			return mapRepoError("get player history", err)
		}
		if h.GameID != gameID {
			return ErrPlayerNotFound
		}
		h.Stats.Set(kind, value)
		if err := s.store.PlayerHistory.Update(ctx, h); err != nil {
			return mapRepoError("set player history", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Results(ctx, gameID, ent)
}
