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
	ErrLiveMatchNotFound = errors.New("live match not found")
	ErrLiveMatchConflict = errors.New("game already has a live match")
)

type LiveMatchRepository interface {
	GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.LiveMatch, error)
	Create(ctx context.Context, match *models.LiveMatch) error
	Update(ctx context.Context, match *models.LiveMatch) error
}

type sqlLiveMatchRepository struct {
	db SQLExecutor
}

func NewSQLLiveMatchRepository(db SQLExecutor) LiveMatchRepository {
	return &sqlLiveMatchRepository{db: db}
}

const liveMatchColumns = `id, game_id,
	left_team_id, left_team_name, left_team_color, left_goals, left_win_streak,
	right_team_id, right_team_name, right_team_color, right_goals, right_win_streak,
	match_count, is_live, last_out_team_id, awaiting_stay_choice`

func (r *sqlLiveMatchRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.LiveMatch, error) {
	var (
		m                models.LiveMatch
		isLive, awaiting int
	)
	query := `SELECT ` + liveMatchColumns + ` FROM live_matches WHERE game_id = $1`
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&m.ID, &m.GameID,
		&m.Left.TeamID, &m.Left.TeamName, &m.Left.TeamColor, &m.Left.Goals, &m.Left.WinStreak,
		&m.Right.TeamID, &m.Right.TeamName, &m.Right.TeamColor, &m.Right.Goals, &m.Right.WinStreak,
		&m.MatchCount, &isLive, &m.LastOutTeamID, &awaiting,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLiveMatchNotFound
		}
		return nil, fmt.Errorf("failed to get live match for game %s: %w", gameID, err)
	}
	m.IsLive = isLive != 0
	m.AwaitingStayChoice = awaiting != 0
	return &m, nil
}

func (r *sqlLiveMatchRepository) Create(ctx context.Context, m *models.LiveMatch) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `INSERT INTO live_matches (` + liveMatchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.GameID,
		m.Left.TeamID, m.Left.TeamName, m.Left.TeamColor, m.Left.Goals, m.Left.WinStreak,
		m.Right.TeamID, m.Right.TeamName, m.Right.TeamColor, m.Right.Goals, m.Right.WinStreak,
		m.MatchCount, boolToInt(m.IsLive), m.LastOutTeamID, boolToInt(m.AwaitingStayChoice),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLiveMatchConflict
		}
		return fmt.Errorf("failed to create live match: %w", err)
	}
	return nil
}

func (r *sqlLiveMatchRepository) Update(ctx context.Context, m *models.LiveMatch) error {
	query := `
		UPDATE live_matches
		SET left_team_id = $1, left_team_name = $2, left_team_color = $3, left_goals = $4, left_win_streak = $5,
		    right_team_id = $6, right_team_name = $7, right_team_color = $8, right_goals = $9, right_win_streak = $10,
		    match_count = $11, is_live = $12, last_out_team_id = $13, awaiting_stay_choice = $14
		WHERE game_id = $15`
	result, err := r.db.ExecContext(ctx, query,
		m.Left.TeamID, m.Left.TeamName, m.Left.TeamColor, m.Left.Goals, m.Left.WinStreak,
		m.Right.TeamID, m.Right.TeamName, m.Right.TeamColor, m.Right.Goals, m.Right.WinStreak,
		m.MatchCount, boolToInt(m.IsLive), m.LastOutTeamID, boolToInt(m.AwaitingStayChoice),
		m.GameID,
	)
	if err != nil {
		return fmt.Errorf("failed to update live match for game %s: %w", m.GameID, err)
	}
	return checkAffectedRows(result, ErrLiveMatchNotFound)
}
