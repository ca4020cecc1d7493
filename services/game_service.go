package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/pickup-scoreboard/config"
	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/repositories"
	"github.com/google/uuid"
)

type PlayerInput struct {
	// ID addresses an existing player slot on update; nil adds a player.
	ID   *uuid.UUID `json:"id,omitempty"`
	Name string     `json:"name"`
}

type TeamInput struct {
	ID      *uuid.UUID    `json:"id,omitempty"`
	Name    string        `json:"name"`
	Color   string        `json:"color,omitempty"`
	Players []PlayerInput `json:"players"`
}

type CreateGameInput struct {
	Name            string      `json:"name"`
	Format          string      `json:"format,omitempty"`
	TeamQuantity    int         `json:"team_quantity,omitempty"`
	Rule            string      `json:"rule,omitempty"`
	DurationMinutes *int        `json:"duration_minutes"`
	Teams           []TeamInput `json:"teams"`
}

type UpdateGameInput struct {
	Name            string      `json:"name"`
	Format          *string     `json:"format,omitempty"`
	Rule            *string     `json:"rule,omitempty"`
	DurationMinutes *int        `json:"duration_minutes"`
	Teams           []TeamInput `json:"teams"`
}

type TeamDetails struct {
	models.Team
	Players []models.Player `json:"players"`
}

// GameDetails is a game with its roster, as the setup screen edits it.
type GameDetails struct {
	Game  *models.Game  `json:"game"`
	Teams []TeamDetails `json:"teams"`
}

type GameService interface {
	Create(ctx context.Context, input CreateGameInput) (*GameDetails, error)
	Get(ctx context.Context, gameID uuid.UUID) (*GameDetails, error)
	List(ctx context.Context) ([]*models.Game, error)
	Update(ctx context.Context, gameID uuid.UUID, input UpdateGameInput) (*GameDetails, error)
	Delete(ctx context.Context, gameID uuid.UUID) error
}

type gameService struct {
	store    *repositories.Store
	actor    *Actor
	defaults config.GameDefaults
	logger   *slog.Logger
	now      func() time.Time
}

func NewGameService(store *repositories.Store, actor *Actor, defaults config.GameDefaults, logger *slog.Logger) GameService {
	return &gameService{
		store:    store,
		actor:    actor,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}
}

// validateRoster checks the fields shared by create and update. The first
// failure wins.
func validateRoster(name string, duration *int, teams []TeamInput) error {
	if normalizeName(name) == "" {
		return validationError("name", CodeGameNameEmpty)
	}
	if duration == nil {
		return validationError("duration_minutes", CodeGameTimeEmpty)
	}
	for i, t := range teams {
		if normalizeName(t.Name) == "" {
			return validationError(fmt.Sprintf("teams[%d].name", i), CodeTeamNameEmpty)
		}
	}
	return nil
}

func (s *gameService) duration(requested int) int {
	if requested <= 0 {
		return s.defaults.DurationMinutes
	}
	return requested
}

func teamColor(raw string, index int) models.TeamColor {
	if raw == "" {
		return models.ColorForIndex(index)
	}
	return models.ParseTeamColor(raw)
}

func (s *gameService) Create(ctx context.Context, input CreateGameInput) (*GameDetails, error) {
	if err := validateRoster(input.Name, input.DurationMinutes, input.Teams); err != nil {
		return nil, err
	}

	quantity := input.TeamQuantity
	if quantity == 0 {
		quantity = s.defaults.TeamQuantity
	}
	q := models.ParseTeamQuantity(quantity)
	if len(input.Teams) != int(q) {
		return nil, validationError("teams", CodeTeamQuantityMismatch)
	}

	format := input.Format
	if format == "" {
		format = s.defaults.Format
	}

	game := &models.Game{
		ID:              uuid.New(),
		Name:            normalizeName(input.Name),
		Format:          models.ParseGameFormat(format),
		TeamQuantity:    q,
		DurationMinutes: s.duration(*input.DurationMinutes),
		ModifiedAt:      s.now(),
	}
	game.SetRule(models.ParseRule(q, input.Rule))

	err := s.actor.do(func() error {
		if err := s.store.Games.Create(ctx, game); err != nil {
			return mapRepoError("create game", err)
		}

		teams := make([]models.Team, 0, len(input.Teams))
		for i, in := range input.Teams {
			team := models.Team{
				ID:       uuid.New(),
				GameID:   game.ID,
				Name:     normalizeName(in.Name),
				Color:    teamColor(in.Color, i),
				Position: i,
			}
			if err := s.store.Teams.Create(ctx, &team); err != nil {
				return mapRepoError("create team", err)
			}
			h := models.NewTeamHistory(team)
			if err := s.store.TeamHistory.Create(ctx, &h); err != nil {
				return mapRepoError("create team history", err)
			}
			if err := s.createPlayers(ctx, game.ID, team, in.Players, 0); err != nil {
				return err
			}
			teams = append(teams, team)
		}

		m := models.NewLiveMatch(game.ID, teams[0], teams[1])
		if err := s.store.Matches.Create(ctx, &m); err != nil {
			return mapRepoError("create live match", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", game.ID.String()),
		slog.String("rule", game.RuleName),
		slog.Int("teams", int(q)),
	)
	return s.Get(ctx, game.ID)
}

// createPlayers adds the non-blank names of ins to team, numbering slots
// from position.
func (s *gameService) createPlayers(ctx context.Context, gameID uuid.UUID, team models.Team, ins []PlayerInput, position int) error {
	for _, in := range ins {
		name := normalizeName(in.Name)
		if name == "" {
			continue
		}
		p := models.Player{ID: uuid.New(), TeamID: team.ID, Name: name, Position: position}
		position++
		if err := s.store.Players.Create(ctx, &p); err != nil {
			return mapRepoError("create player", err)
		}
		if err := s.linkPlayerHistory(ctx, gameID, p); err != nil {
			return err
		}
	}
	return nil
}

// linkPlayerHistory hands the ledger entry of a former player with the same
// name in the same team over to p, or opens a zeroed one.
func (s *gameService) linkPlayerHistory(ctx context.Context, gameID uuid.UUID, p models.Player) error {
	h, err := s.store.PlayerHistory.GetByTeamAndName(ctx, p.TeamID, p.Name)
	switch {
	case errors.Is(err, repositories.ErrPlayerHistoryNotFound):
		fresh := models.NewPlayerHistory(p, gameID, models.Stats{})
		if err := s.store.PlayerHistory.Create(ctx, &fresh); err != nil {
			return mapRepoError("create player history", err)
		}
		return nil
	case err != nil:
		return mapRepoError("find player history", err)
	}

	h.OriginalID = p.ID
	if err := s.store.PlayerHistory.Update(ctx, h); err != nil {
		return mapRepoError("relink player history", err)
	}
	return nil
}

func (s *gameService) Get(ctx context.Context, gameID uuid.UUID) (*GameDetails, error) {
	game, err := s.store.Games.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("get game", err)
	}
	teams, err := s.store.Teams.ListByGame(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("list teams", err)
	}
	players, err := s.store.Players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("list players", err)
	}

	details := &GameDetails{Game: game, Teams: make([]TeamDetails, 0, len(teams))}
	for _, t := range teams {
		td := TeamDetails{Team: *t, Players: []models.Player{}}
		for _, p := range players {
			if p.TeamID == t.ID {
				td.Players = append(td.Players, *p)
			}
		}
		details.Teams = append(details.Teams, td)
	}
	return details, nil
}

func (s *gameService) List(ctx context.Context) ([]*models.Game, error) {
	games, err := s.store.Games.List(ctx)
	if err != nil {
		return nil, mapRepoError("list games", err)
	}
	return games, nil
}

func (s *gameService) Update(ctx context.Context, gameID uuid.UUID, input UpdateGameInput) (*GameDetails, error) {
	if err := validateRoster(input.Name, input.DurationMinutes, input.Teams); err != nil {
		return nil, err
	}

	err := s.actor.do(func() error {
		game, err := s.store.Games.GetByID(ctx, gameID)
		if err != nil {
			return mapRepoError("get game", err)
		}
		match, err := s.store.Matches.GetByGameID(ctx, gameID)
		if err != nil {
			return mapRepoError("get live match", err)
		}
		if match.IsLive {
			return ErrMatchLive
		}
		edits, err := s.resolveTeamEdits(ctx, gameID, input.Teams)
		if err != nil {
			return err
		}

		game.Name = normalizeName(input.Name)
		game.DurationMinutes = s.duration(*input.DurationMinutes)
		if input.Format != nil {
			game.Format = models.ParseGameFormat(*input.Format)
		}
		if input.Rule != nil {
			game.SetRule(models.ParseRule(game.TeamQuantity, *input.Rule))
		}
		game.ModifiedAt = s.now()
		if err := s.store.Games.Update(ctx, game); err != nil {
			return mapRepoError("update game", err)
		}

		for _, e := range edits {
			if err := s.updateTeam(ctx, match, e); err != nil {
				return err
			}
		}

		if err := s.store.Matches.Update(ctx, match); err != nil {
			return mapRepoError("update live match", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game updated", slog.String("game_id", gameID.String()))
	return s.Get(ctx, gameID)
}

// teamEdit is one checked team entry of an update, with the players the
// entry addresses by id.
type teamEdit struct {
	team    *models.Team
	in      TeamInput
	players map[uuid.UUID]*models.Player
}

// resolveTeamEdits looks up every team and player slot an update addresses.
// It does not write, so a rejected update leaves the store untouched.
func (s *gameService) resolveTeamEdits(ctx context.Context, gameID uuid.UUID, ins []TeamInput) ([]teamEdit, error) {
	edits := make([]teamEdit, 0, len(ins))
	for _, in := range ins {
		if in.ID == nil {
			return nil, validationError("teams", CodeTeamQuantityMismatch)
		}
		team, err := s.store.Teams.GetByID(ctx, *in.ID)
		if err != nil {
			return nil, mapRepoError("get team", err)
		}
		if team.GameID != gameID {
			return nil, ErrTeamNotFound
		}

		existing, err := s.store.Players.ListByTeam(ctx, team.ID)
		if err != nil {
			return nil, mapRepoError("list players", err)
		}
		players := make(map[uuid.UUID]*models.Player, len(existing))
		for _, p := range existing {
			players[p.ID] = p
		}
		for _, slot := range in.Players {
			if slot.ID == nil {
				continue
			}
			if _, ok := players[*slot.ID]; !ok {
				return nil, ErrPlayerNotFound
			}
		}
		edits = append(edits, teamEdit{team: team, in: in, players: players})
	}
	return edits, nil
}

// updateTeam renames and recolours the team everywhere it is shown and
// applies the per-slot player edits.
func (s *gameService) updateTeam(ctx context.Context, match *models.LiveMatch, e teamEdit) error {
	team, in := e.team, e.in
	team.Name = normalizeName(in.Name)
	if in.Color != "" {
		team.Color = models.ParseTeamColor(in.Color)
	}
	if err := s.store.Teams.Update(ctx, team); err != nil {
		return mapRepoError("update team", err)
	}

	h, err := s.store.TeamHistory.GetByOriginalID(ctx, team.ID)
	switch {
	case errors.Is(err, repositories.ErrTeamHistoryNotFound):
		fresh := models.NewTeamHistory(*team)
		if err := s.store.TeamHistory.Create(ctx, &fresh); err != nil {
			return mapRepoError("create team history", err)
		}
	case err != nil:
		return mapRepoError("get team history", err)
	default:
		h.Name, h.Color = team.Name, team.Color
		if err := s.store.TeamHistory.Update(ctx, h); err != nil {
			return mapRepoError("update team history", err)
		}
	}

	if side, ok := match.SideOf(team.ID); ok {
		slot := match.Slot(side)
		slot.TeamName, slot.TeamColor = team.Name, team.Color
	}

	position := 0
	for _, p := range e.players {
		position = max(position, p.Position+1)
	}

	var added []PlayerInput
	for _, slot := range in.Players {
		if slot.ID == nil {
			added = append(added, slot)
			continue
		}
		current := e.players[*slot.ID]
		name := normalizeName(slot.Name)
		switch {
		case name == "":
			if err := s.store.Players.Delete(ctx, current.ID); err != nil {
				return mapRepoError("delete player", err)
			}
		case name != current.Name:
			// A renamed slot is a different person: the old ledger entry stays
			// behind under the old name.
			if err := s.store.Players.Delete(ctx, current.ID); err != nil {
				return mapRepoError("replace player", err)
			}
			p := models.Player{ID: uuid.New(), TeamID: team.ID, Name: name, Position: current.Position}
			if err := s.store.Players.Create(ctx, &p); err != nil {
				return mapRepoError("replace player", err)
			}
			if err := s.linkPlayerHistory(ctx, team.GameID, p); err != nil {
				return err
			}
		}
	}
	return s.createPlayers(ctx, team.GameID, *team, added, position)
}

func (s *gameService) Delete(ctx context.Context, gameID uuid.UUID) error {
	return s.actor.do(func() error {
		match, err := s.store.Matches.GetByGameID(ctx, gameID)
		if err != nil && !errors.Is(err, repositories.ErrLiveMatchNotFound) {
			return mapRepoError("get live match", err)
		}
		if match != nil && match.IsLive {
			return ErrMatchLive
		}
		if err := s.store.Games.Delete(ctx, gameID); err != nil {
			return mapRepoError("delete game", err)
		}
		s.logger.Info("game deleted", slog.String("game_id", gameID.String()))
		return nil
	})
}
