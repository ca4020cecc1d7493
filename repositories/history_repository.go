package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

var (
	ErrTeamHistoryNotFound   = errors.New("team history not found")
	ErrPlayerHistoryNotFound = errors.New("player history not found")
)

type TeamHistoryRepository interface {
	GetByOriginalID(ctx context.Context, originalID uuid.UUID) (*models.TeamHistory, error)
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.TeamHistory, error)
	Create(ctx context.Context, h *models.TeamHistory) error
	Update(ctx context.Context, h *models.TeamHistory) error
}

type PlayerHistoryRepository interface {
	GetByOriginalID(ctx context.Context, originalID uuid.UUID) (*models.PlayerHistory, error)
	// GetByTeamAndName finds the ledger entry of a player that was replaced
	// under the same name.
	GetByTeamAndName(ctx context.Context, teamID uuid.UUID, name string) (*models.PlayerHistory, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*models.PlayerHistory, error)
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.PlayerHistory, error)
	Create(ctx context.Context, h *models.PlayerHistory) error
	Update(ctx context.Context, h *models.PlayerHistory) error
	DeleteByOriginalID(ctx context.Context, originalID uuid.UUID) error
}

type sqlTeamHistoryRepository struct {
	db SQLExecutor
}

func NewSQLTeamHistoryRepository(db SQLExecutor) TeamHistoryRepository {
	return &sqlTeamHistoryRepository{db: db}
}

const teamHistoryColumns = `id, original_id, game_id, name, color, games, wins, draws, losses, goals, conceded, points`

func scanTeamHistory(s rowScanner) (*models.TeamHistory, error) {
	var h models.TeamHistory
	err := s.Scan(
		&h.ID, &h.OriginalID, &h.GameID, &h.Name, &h.Color,
		&h.Games, &h.Wins, &h.Draws, &h.Losses, &h.Goals, &h.Conceded, &h.Points,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *sqlTeamHistoryRepository) GetByOriginalID(ctx context.Context, originalID uuid.UUID) (*models.TeamHistory, error) {
	query := `SELECT ` + teamHistoryColumns + ` FROM team_history WHERE original_id = $1`
	h, err := scanTeamHistory(r.db.QueryRowContext(ctx, query, originalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamHistoryNotFound
		}
		return nil, fmt.Errorf("failed to get team history for %s: %w", originalID, err)
	}
	return h, nil
}

func (r *sqlTeamHistoryRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.TeamHistory, error) {
	query := `SELECT ` + teamHistoryColumns + ` FROM team_history WHERE game_id = $1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team history for game %s: %w", gameID, err)
	}
	defer rows.Close()

	out := make([]*models.TeamHistory, 0)
	for rows.Next() {
		h, err := scanTeamHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team history row: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team history rows: %w", err)
	}
	return out, nil
}

func (r *sqlTeamHistoryRepository) Create(ctx context.Context, h *models.TeamHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	query := `INSERT INTO team_history (` + teamHistoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.OriginalID, h.GameID, h.Name, h.Color,
		h.Games, h.Wins, h.Draws, h.Losses, h.Goals, h.Conceded, h.Points,
	)
	if err != nil {
		return fmt.Errorf("failed to create team history: %w", err)
	}
	return nil
}

func (r *sqlTeamHistoryRepository) Update(ctx context.Context, h *models.TeamHistory) error {
	query := `
		UPDATE team_history
		SET original_id = $1, name = $2, color = $3, games = $4, wins = $5, draws = $6,
		    losses = $7, goals = $8, conceded = $9, points = $10
		WHERE id = $11`
	result, err := r.db.ExecContext(ctx, query,
		h.OriginalID, h.Name, h.Color, h.Games, h.Wins, h.Draws,
		h.Losses, h.Goals, h.Conceded, h.Points, h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team history %s: %w", h.ID, err)
	}
	return checkAffectedRows(result, ErrTeamHistoryNotFound)
}

type sqlPlayerHistoryRepository struct {
	db SQLExecutor
}

func NewSQLPlayerHistoryRepository(db SQLExecutor) PlayerHistoryRepository {
	return &sqlPlayerHistoryRepository{db: db}
}

const playerHistoryColumns = `id, original_id, team_id, game_id, name, goals, assists, dribbles, passes, shots, saves`

func scanPlayerHistory(s rowScanner) (*models.PlayerHistory, error) {
	var h models.PlayerHistory
	err := s.Scan(
		&h.ID, &h.OriginalID, &h.TeamID, &h.GameID, &h.Name,
		&h.Goals, &h.Assists, &h.Dribbles, &h.Passes, &h.Shots, &h.Saves,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *sqlPlayerHistoryRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.PlayerHistory, error) {
	h, err := scanPlayerHistory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerHistoryNotFound
		}
		return nil, fmt.Errorf("failed to find player history: %w", err)
	}
	return h, nil
}

func (r *sqlPlayerHistoryRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.PlayerHistory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list player history: %w", err)
	}
	defer rows.Close()

	out := make([]*models.PlayerHistory, 0)
	for rows.Next() {
		h, err := scanPlayerHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player history row: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player history rows: %w", err)
	}
	return out, nil
}

func (r *sqlPlayerHistoryRepository) GetByOriginalID(ctx context.Context, originalID uuid.UUID) (*models.PlayerHistory, error) {
	query := `SELECT ` + playerHistoryColumns + ` FROM player_history WHERE original_id = $1`
	return r.findOne(ctx, query, originalID)
}

func (r *sqlPlayerHistoryRepository) GetByTeamAndName(ctx context.Context, teamID uuid.UUID, name string) (*models.PlayerHistory, error) {
	query := `SELECT ` + playerHistoryColumns + ` FROM player_history WHERE team_id = $1 AND name = $2 LIMIT 1`
	return r.findOne(ctx, query, teamID, name)
}

func (r *sqlPlayerHistoryRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*models.PlayerHistory, error) {
	query := `SELECT ` + playerHistoryColumns + ` FROM player_history WHERE team_id = $1 ORDER BY name ASC`
	return r.list(ctx, query, teamID)
}

func (r *sqlPlayerHistoryRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.PlayerHistory, error) {
	query := `SELECT ` + playerHistoryColumns + ` FROM player_history WHERE game_id = $1 ORDER BY name ASC`
	return r.list(ctx, query, gameID)
}

func (r *sqlPlayerHistoryRepository) Create(ctx context.Context, h *models.PlayerHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	query := `INSERT INTO player_history (` + playerHistoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.OriginalID, h.TeamID, h.GameID, h.Name,
		h.Goals, h.Assists, h.Dribbles, h.Passes, h.Shots, h.Saves,
	)
	if err != nil {
		return fmt.Errorf("failed to create player history: %w", err)
	}
	return nil
}

func (r *sqlPlayerHistoryRepository) Update(ctx context.Context, h *models.PlayerHistory) error {
	query := `
		UPDATE player_history
		SET original_id = $1, team_id = $2, name = $3, goals = $4, assists = $5,
		    dribbles = $6, passes = $7, shots = $8, saves = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(ctx, query,
		h.OriginalID, h.TeamID, h.Name, h.Goals, h.Assists,
		h.Dribbles, h.Passes, h.Shots, h.Saves, h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player history %s: %w", h.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerHistoryNotFound)
}

func (r *sqlPlayerHistoryRepository) DeleteByOriginalID(ctx context.Context, originalID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM player_history WHERE original_id = $1`, originalID)
	if err != nil {
		return fmt.Errorf("failed to delete player history for %s: %w", originalID, err)
	}
	return checkAffectedRows(result, ErrPlayerHistoryNotFound)
}
