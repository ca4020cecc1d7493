package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error)
	// ListByGame returns the players of every team of the game, grouped by
	// team in creation order.
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.Player, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sqlPlayerRepository struct {
	db SQLExecutor
}

func NewSQLPlayerRepository(db SQLExecutor) PlayerRepository {
	return &sqlPlayerRepository{db: db}
}

const playerColumns = `p.id, p.team_id, p.name, p.position, p.goals, p.assists, p.dribbles, p.passes, p.shots, p.saves`

func scanPlayer(s rowScanner) (*models.Player, error) {
	var p models.Player
	err := s.Scan(
		&p.ID, &p.TeamID, &p.Name, &p.Position,
		&p.Goals, &p.Assists, &p.Dribbles, &p.Passes, &p.Shots, &p.Saves,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqlPlayerRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

func (r *sqlPlayerRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players p WHERE p.team_id = $1 ORDER BY p.position ASC`
	return r.list(ctx, query, teamID)
}

func (r *sqlPlayerRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players p
		JOIN teams t ON t.id = p.team_id
		WHERE t.game_id = $1
		ORDER BY t.position ASC, p.position ASC`
	return r.list(ctx, query, gameID)
}

func (r *sqlPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players p WHERE p.id = $1`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return p, nil
}

func (r *sqlPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	query := `
		INSERT INTO players (id, team_id, name, position, goals, assists, dribbles, passes, shots, saves)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		player.ID, player.TeamID, player.Name, player.Position,
		player.Goals, player.Assists, player.Dribbles, player.Passes, player.Shots, player.Saves,
	)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *sqlPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET name = $1, position = $2, goals = $3, assists = $4, dribbles = $5,
		    passes = $6, shots = $7, saves = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(ctx, query,
		player.Name, player.Position, player.Goals, player.Assists, player.Dribbles,
		player.Passes, player.Shots, player.Saves, player.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *sqlPlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
