package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	// ListByGame returns teams in creation order.
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sqlTeamRepository struct {
	db SQLExecutor
}

func NewSQLTeamRepository(db SQLExecutor) TeamRepository {
	return &sqlTeamRepository{db: db}
}

const teamColumns = `id, game_id, name, color, position, games, wins, draws, losses, goals, conceded, points`

func scanTeam(s rowScanner) (*models.Team, error) {
	var t models.Team
	err := s.Scan(
		&t.ID, &t.GameID, &t.Name, &t.Color, &t.Position,
		&t.Games, &t.Wins, &t.Draws, &t.Losses, &t.Goals, &t.Conceded, &t.Points,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *sqlTeamRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE game_id = $1 ORDER BY position ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for game %s: %w", gameID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *sqlTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return t, nil
}

func (r *sqlTeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	query := `INSERT INTO teams (` + teamColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		team.ID, team.GameID, team.Name, team.Color, team.Position,
		team.Games, team.Wins, team.Draws, team.Losses, team.Goals, team.Conceded, team.Points,
	)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *sqlTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, color = $2, position = $3, games = $4, wins = $5, draws = $6,
		    losses = $7, goals = $8, conceded = $9, points = $10
		WHERE id = $11`
	result, err := r.db.ExecContext(ctx, query,
		team.Name, team.Color, team.Position, team.Games, team.Wins, team.Draws,
		team.Losses, team.Goals, team.Conceded, team.Points, team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team %s: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *sqlTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
