package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameConflict = errors.New("game already exists")
)

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	// List returns games most recently modified first.
	List(ctx context.Context) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	// Delete removes the game together with its teams, players, live match,
	// timer and history.
	Delete(ctx context.Context, id uuid.UUID) error
}

type sqlGameRepository struct {
	db SQLExecutor
}

func NewSQLGameRepository(db SQLExecutor) GameRepository {
	return &sqlGameRepository{db: db}
}

const gameColumns = `id, name, format, team_quantity, rule, duration_minutes, modified_at`

func (r *sqlGameRepository) Create(ctx context.Context, game *models.Game) error {
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	if game.ModifiedAt.IsZero() {
		game.ModifiedAt = time.Now()
	}
	query := `INSERT INTO games (` + gameColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		game.ID, game.Name, game.Format, int(game.TeamQuantity), game.RuleName,
		game.DurationMinutes, game.ModifiedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrGameConflict
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func scanGame(s rowScanner) (*models.Game, error) {
	var (
		g          models.Game
		quantity   int
		modifiedAt int64
	)
	if err := s.Scan(&g.ID, &g.Name, &g.Format, &quantity, &g.RuleName, &g.DurationMinutes, &modifiedAt); err != nil {
		return nil, err
	}
	g.TeamQuantity = models.TeamQuantity(quantity)
	g.Format = models.ParseGameFormat(string(g.Format))
	g.ModifiedAt = time.UnixMilli(modifiedAt)
	g.ResolveRule()
	return &g, nil
}

func (r *sqlGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	g, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return g, nil
}

func (r *sqlGameRepository) List(ctx context.Context) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY modified_at DESC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game rows: %w", err)
	}
	return games, nil
}

func (r *sqlGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games
		SET name = $1, format = $2, team_quantity = $3, rule = $4, duration_minutes = $5, modified_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		game.Name, game.Format, int(game.TeamQuantity), game.RuleName,
		game.DurationMinutes, game.ModifiedAt.UnixMilli(), game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *sqlGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}
