package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// TimerRepository keeps the remaining countdown of a game while the operator
// is away from the scoreboard. An empty slot reads as zero.
type TimerRepository interface {
	Get(ctx context.Context, gameID uuid.UUID) (int64, error)
	Save(ctx context.Context, gameID uuid.UUID, remainingMillis int64) error
	Clear(ctx context.Context, gameID uuid.UUID) error
}

type sqlTimerRepository struct {
	db SQLExecutor
}

func NewSQLTimerRepository(db SQLExecutor) TimerRepository {
	return &sqlTimerRepository{db: db}
}

func (r *sqlTimerRepository) Get(ctx context.Context, gameID uuid.UUID) (int64, error) {
	var remaining int64
	err := r.db.QueryRowContext(ctx, `SELECT remaining_ms FROM match_timers WHERE game_id = $1`, gameID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read timer for game %s: %w", gameID, err)
	}
	return remaining, nil
}

func (r *sqlTimerRepository) Save(ctx context.Context, gameID uuid.UUID, remainingMillis int64) error {
	query := `
		INSERT INTO match_timers (game_id, remaining_ms) VALUES ($1, $2)
		ON CONFLICT (game_id) DO UPDATE SET remaining_ms = excluded.remaining_ms`
	if _, err := r.db.ExecContext(ctx, query, gameID, remainingMillis); err != nil {
		return fmt.Errorf("failed to save timer for game %s: %w", gameID, err)
	}
	return nil
}

func (r *sqlTimerRepository) Clear(ctx context.Context, gameID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM match_timers WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("failed to clear timer for game %s: %w", gameID, err)
	}
	return nil
}
