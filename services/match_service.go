package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/pickup-scoreboard/live"
	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/repositories"
	"github.com/Dosada05/pickup-scoreboard/rotation"
	"github.com/Dosada05/pickup-scoreboard/standings"
	"github.com/Dosada05/pickup-scoreboard/stats"
	"github.com/google/uuid"
)

const snackbarSaved = "saved"

// Board is everything the live scoreboard screen renders.
type Board struct {
	Game    *models.Game           `json:"game"`
	Match   models.LiveMatch       `json:"match"`
	Teams   []models.Team          `json:"teams"`
	Players []standings.PlayerLine `json:"players"`
	Timer   TimerState             `json:"timer"`
}

type StatInput struct {
	TeamID   uuid.UUID       `json:"team_id"`
	PlayerID uuid.UUID       `json:"player_id"`
	Kind     models.StatKind `json:"kind"`
}

// MatchService handles every action of the live scoreboard. Mutating actions
// return the new board and, when the UI has to react, an effect that is also
// queued for the game.
type MatchService interface {
	Board(ctx context.Context, gameID uuid.UUID) (*Board, error)
	ToggleStart(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error)
	ConfirmFinish(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error)
	ChangeTeam(ctx context.Context, gameID uuid.UUID, side models.Side, teamID uuid.UUID) (*Board, *Effect, error)
	SwapSides(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error)
	RecordStat(ctx context.Context, gameID uuid.UUID, in StatInput) (*Board, *Effect, error)
	OwnGoal(ctx context.Context, gameID uuid.UUID, teamID uuid.UUID) (*Board, *Effect, error)
	SetPlayerStat(ctx context.Context, gameID, playerID uuid.UUID, kind models.StatKind, value int) (*Board, *Effect, error)
	SetScore(ctx context.Context, gameID uuid.UUID, side models.Side, value int) (*Board, *Effect, error)
	ChooseStayingTeam(ctx context.Context, gameID uuid.UUID, side models.Side) (*Board, *Effect, error)
	DismissStayChoice(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error)
	ClearResults(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error)
	BestPlayers(ctx context.Context, gameID uuid.UUID) (*Effect, error)
	ToggleTimer(ctx context.Context, gameID uuid.UUID) (TimerState, error)
	SaveTimer(ctx context.Context, gameID uuid.UUID) error
	PendingEffect(gameID uuid.UUID) (Effect, bool)
	AckEffect(gameID uuid.UUID) bool
}

type matchService struct {
	store   *repositories.Store
	actor   *Actor
	clock   *MatchClock
	effects *EffectQueue
	hub     Broadcaster
	logger  *slog.Logger
}

func NewMatchService(
	store *repositories.Store,
	actor *Actor,
	clock *MatchClock,
	effects *EffectQueue,
	hub Broadcaster,
	logger *slog.Logger,
) MatchService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &matchService{
		store:   store,
		actor:   actor,
		clock:   clock,
		effects: effects,
		hub:     hub,
		logger:  logger,
	}
}

// gameState is one consistent read of a game.
type gameState struct {
	game    *models.Game
	match   models.LiveMatch
	teams   []models.Team
	players []models.Player
}

func (s *matchService) load(ctx context.Context, gameID uuid.UUID) (*gameState, error) {
	game, err := s.store.Games.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("load game", err)
	}
	match, err := s.store.Matches.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("load live match", err)
	}
	teams, err := s.store.Teams.ListByGame(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("load teams", err)
	}
	players, err := s.store.Players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, mapRepoError("load players", err)
	}
	return &gameState{game: game, match: *match, teams: derefTeams(teams), players: derefPlayers(players)}, nil
}

func (st *gameState) team(id uuid.UUID) (models.Team, bool) {
	for _, t := range st.teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.Team{}, false
}

func (st *gameState) player(id uuid.UUID) (models.Player, bool) {
	for _, p := range st.players {
		if p.ID == id {
			return p, true
		}
	}
	return models.Player{}, false
}

func (s *matchService) board(ctx context.Context, st *gameState) (*Board, error) {
	timer, err := s.timerState(ctx, st)
	if err != nil {
		return nil, err
	}
	return &Board{
		Game:    st.game,
		Match:   st.match,
		Teams:   standings.RankTeams(st.teams),
		Players: standings.RankPlayers(st.teams, st.players),
		Timer:   timer,
	}, nil
}

func (s *matchService) timerState(ctx context.Context, st *gameState) (TimerState, error) {
	if state, ok := s.clock.State(st.game.ID); ok {
		return state, nil
	}
	remaining := st.game.DurationMillis()
	if st.match.IsLive {
		saved, err := s.store.Timers.Get(ctx, st.game.ID)
		if err != nil {
			return TimerState{}, mapRepoError("read timer", err)
		}
		if saved > 0 {
			remaining = saved
		}
	}
	return TimerState{RemainingMillis: remaining, Display: FormatMillis(remaining)}, nil
}

// mutate runs fn on a fresh read of the game under the actor lock, then
// publishes the resulting board and effect.
func (s *matchService) mutate(ctx context.Context, gameID uuid.UUID, fn func(st *gameState) (*Effect, error)) (*Board, *Effect, error) {
	var (
		b      *Board
		effect *Effect
	)
	err := s.actor.do(func() error {
		st, err := s.load(ctx, gameID)
		if err != nil {
			return err
		}
		effect, err = fn(st)
		if err != nil {
			return err
		}
		st, err = s.load(ctx, gameID)
		if err != nil {
			return err
		}
		b, err = s.board(ctx, st)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	room := live.RoomForGame(gameID)
	s.hub.BroadcastToRoom(room, live.Message{Type: live.MessageBoardUpdated, Payload: b, RoomID: room})
	if effect != nil {
		s.publishEffect(gameID, *effect)
	}
	return b, effect, nil
}

func (s *matchService) publishEffect(gameID uuid.UUID, e Effect) {
	s.effects.Push(gameID, e)
	room := live.RoomForGame(gameID)
	s.hub.BroadcastToRoom(room, live.Message{Type: live.MessageEffect, Payload: e, RoomID: room})
}

func mapRotationError(err error) error {
	switch {
	case errors.Is(err, rotation.ErrNotLive):
		return ErrMatchNotLive
	case errors.Is(err, rotation.ErrAlreadyLive):
		return ErrMatchLive
	case errors.Is(err, rotation.ErrStayChoicePending):
		return ErrStayChoicePending
	case errors.Is(err, rotation.ErrNoStayChoice):
		return ErrNoStayChoice
	}
	return fmt.Errorf("%w: %w", ErrInvalidTeamChange, err)
}

func (s *matchService) saveMatch(ctx context.Context, m models.LiveMatch) error {
	if err := s.store.Matches.Update(ctx, &m); err != nil {
		return mapRepoError("save live match", err)
	}
	return nil
}

func (s *matchService) Board(ctx context.Context, gameID uuid.UUID) (*Board, error) {
	st, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.board(ctx, st)
}

func (s *matchService) ToggleStart(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		if st.match.IsLive {
			return &Effect{Type: EffectConfirmFinish}, nil
		}
		m, err := rotation.Start(st.match)
		if err != nil {
			return nil, mapRotationError(err)
		}
		if err := s.saveMatch(ctx, m); err != nil {
			return nil, err
		}
		if err := s.clock.Start(gameID, st.game.DurationMillis()); err != nil {
			s.logger.Warn("failed to start match clock", slog.String("game_id", gameID.String()), slog.Any("error", err))
		}
		s.logger.Info("match started", slog.String("game_id", gameID.String()), slog.Int("match", m.MatchCount+1))
		return nil, nil
	})
}

func (s *matchService) ConfirmFinish(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		res, err := rotation.Resolve(rotation.Input{
			Match: st.match,
			Rule:  st.game.Rule,
			Teams: standings.RankTeams(st.teams),
		})
		if err != nil {
			return nil, mapRotationError(err)
		}

		for _, d := range res.Deltas {
			team, ok := st.team(d.TeamID)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, d.TeamID)
			}
			team.Record = team.Record.Add(d.Record)
			if err := s.store.Teams.Update(ctx, &team); err != nil {
				return nil, mapRepoError("record team result", err)
			}
			if err := recordTeamHistory(ctx, s.store, team, d.Record); err != nil {
				return nil, mapRepoError("record team history", err)
			}
		}

		if err := s.saveMatch(ctx, res.Match); err != nil {
			return nil, err
		}
		s.clock.Stop(gameID)
		if err := s.store.Timers.Clear(ctx, gameID); err != nil {
			return nil, mapRepoError("clear timer", err)
		}
		s.effects.Drop(gameID)

		s.logger.Info("match finished",
			slog.String("game_id", gameID.String()),
			slog.String("outcome", string(res.Outcome)),
			slog.Bool("rotated", res.Rotated()),
			slog.Bool("stay_choice", res.NeedsStayChoice),
		)

		if res.NeedsStayChoice {
			return &Effect{
				Type:  EffectChooseStayingTeam,
				Sides: []models.SideState{res.Match.Left, res.Match.Right},
			}, nil
		}
		return nil, nil
	})
}

func (s *matchService) ChangeTeam(ctx context.Context, gameID uuid.UUID, side models.Side, teamID uuid.UUID) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		team, ok := st.team(teamID)
		if !ok {
			return nil, ErrTeamNotFound
		}
		m, err := rotation.ChangeTeam(st.match, st.game.TeamQuantity, side, team)
		if err != nil {
			return nil, mapRotationError(err)
		}
		// a manual change settles a pending draw
		if m.AwaitingStayChoice {
			m.AwaitingStayChoice = false
			s.effects.Drop(gameID)
		}
		return nil, s.saveMatch(ctx, m)
	})
}

func (s *matchService) SwapSides(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		return nil, s.saveMatch(ctx, rotation.SwapSides(st.match))
	})
}

func (s *matchService) RecordStat(ctx context.Context, gameID uuid.UUID, in StatInput) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		if !st.match.IsLive {
			return nil, ErrMatchNotLive
		}
		if !st.match.Occupies(in.TeamID) {
			return nil, ErrTeamNotPlaying
		}
		player, ok := st.player(in.PlayerID)
		if !ok {
			return nil, ErrPlayerNotFound
		}

		m, updated, err := stats.Apply(st.match, player, stats.Event{TeamID: in.TeamID, PlayerID: in.PlayerID, Kind: in.Kind})
		if err != nil {
			if errors.Is(err, stats.ErrTeamNotPlaying) {
				return nil, ErrTeamNotPlaying
			}
			return nil, fmt.Errorf("%w: %w", ErrPlayerNotFound, err)
		}

		if err := s.store.Players.Update(ctx, &updated); err != nil {
			return nil, mapRepoError("record player stat", err)
		}
		if err := shiftPlayerHistory(ctx, s.store, gameID, updated, in.Kind, 1); err != nil {
			return nil, mapRepoError("record player history", err)
		}
		if m != st.match {
			if err := s.saveMatch(ctx, m); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

func (s *matchService) OwnGoal(ctx context.Context, gameID uuid.UUID, teamID uuid.UUID) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		if !st.match.IsLive {
			return nil, ErrMatchNotLive
		}
		m, err := stats.OwnGoal(st.match, teamID)
		if err != nil {
			return nil, ErrTeamNotPlaying
		}
		return nil, s.saveMatch(ctx, m)
	})
}

func (s *matchService) SetPlayerStat(ctx context.Context, gameID, playerID uuid.UUID, kind models.StatKind, value int) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		player, ok := st.player(playerID)
		if !ok {
			return nil, ErrPlayerNotFound
		}
		updated, err := stats.SetExact(player, kind, value)
		if err != nil {
			return nil, ErrNegativeValue
		}
		if err := s.store.Players.Update(ctx, &updated); err != nil {
			return nil, mapRepoError("set player stat", err)
		}
		diff := value - player.Stats.Get(kind)
		if err := shiftPlayerHistory(ctx, s.store, gameID, updated, kind, diff); err != nil {
			return nil, mapRepoError("shift player history", err)
		}
		return snackbar(snackbarSaved), nil
	})
}

func (s *matchService) SetScore(ctx context.Context, gameID uuid.UUID, side models.Side, value int) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		if !st.match.IsLive {
			return nil, ErrMatchNotLive
		}
		m, err := stats.SetScore(st.match, side, value)
		if err != nil {
			return nil, ErrNegativeValue
		}
		if err := s.saveMatch(ctx, m); err != nil {
			return nil, err
		}
		return snackbar(snackbarSaved), nil
	})
}

func (s *matchService) ChooseStayingTeam(ctx context.Context, gameID uuid.UUID, side models.Side) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		res, err := rotation.ResolveStayChoice(st.match, st.game.Rule, standings.RankTeams(st.teams), side)
		if err != nil {
			return nil, mapRotationError(err)
		}
		if err := s.saveMatch(ctx, res.Match); err != nil {
			return nil, err
		}
		s.effects.Drop(gameID)
		return nil, nil
	})
}

// DismissStayChoice keeps the left team, as closing the prompt does.
func (s *matchService) DismissStayChoice(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error) {
	return s.ChooseStayingTeam(ctx, gameID, models.SideLeft)
}

func (s *matchService) ClearResults(ctx context.Context, gameID uuid.UUID) (*Board, *Effect, error) {
	return s.mutate(ctx, gameID, func(st *gameState) (*Effect, error) {
		if st.match.IsLive {
			return nil, ErrMatchLive
		}
		for _, team := range st.teams {
			team.Record = models.Record{}
			if err := s.store.Teams.Update(ctx, &team); err != nil {
				return nil, mapRepoError("clear team results", err)
			}
		}
		for _, player := range st.players {
			player.Stats = models.Stats{}
			if err := s.store.Players.Update(ctx, &player); err != nil {
				return nil, mapRepoError("clear player results", err)
			}
		}

		m := st.match
		m.Left.Goals, m.Left.WinStreak = 0, 0
		m.Right.Goals, m.Right.WinStreak = 0, 0
		m.MatchCount = 0
		m.LastOutTeamID = uuid.Nil
		m.AwaitingStayChoice = false
		if err := s.saveMatch(ctx, m); err != nil {
			return nil, err
		}

		s.clock.Stop(gameID)
		if err := s.store.Timers.Clear(ctx, gameID); err != nil {
			return nil, mapRepoError("clear timer", err)
		}
		s.effects.Drop(gameID)
		s.logger.Info("results cleared", slog.String("game_id", gameID.String()))
		return nil, nil
	})
}

func (s *matchService) BestPlayers(ctx context.Context, gameID uuid.UUID) (*Effect, error) {
	st, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	e := Effect{
		Type:        EffectBestPlayers,
		BestPlayers: stats.Best(standings.RankPlayers(st.teams, st.players)),
	}
	s.publishEffect(gameID, e)
	return &e, nil
}

func (s *matchService) ToggleTimer(ctx context.Context, gameID uuid.UUID) (TimerState, error) {
	var state TimerState
	err := s.actor.do(func() error {
		st, err := s.load(ctx, gameID)
		if err != nil {
			return err
		}
		if !st.match.IsLive {
			return ErrMatchNotLive
		}

		if current, ok := s.clock.State(gameID); ok && current.Running {
			s.clock.Pause(gameID)
		} else if resumed, err := s.clock.Resume(gameID); err != nil {
			return err
		} else if !resumed {
			from, err := s.timerState(ctx, st)
			if err != nil {
				return err
			}
			if err := s.clock.Start(gameID, from.RemainingMillis); err != nil {
				return err
			}
		}

		state, _ = s.clock.State(gameID)
		return nil
	})
	return state, err
}

// SaveTimer keeps the remaining countdown of a live match for the next
// visit and stops the clock.
func (s *matchService) SaveTimer(ctx context.Context, gameID uuid.UUID) error {
	return s.actor.do(func() error {
		st, err := s.load(ctx, gameID)
		if err != nil {
			return err
		}
		if st.match.IsLive {
			if current, ok := s.clock.State(gameID); ok {
				if err := s.store.Timers.Save(ctx, gameID, current.RemainingMillis); err != nil {
					return mapRepoError("save timer", err)
				}
			}
		}
		s.clock.Stop(gameID)
		return nil
	})
}

func (s *matchService) PendingEffect(gameID uuid.UUID) (Effect, bool) {
	return s.effects.Peek(gameID)
}

func (s *matchService) AckEffect(gameID uuid.UUID) bool {
	return s.effects.Ack(gameID)
}
