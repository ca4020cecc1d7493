package db

import (
	"context"
	"database/sql"
	"fmt"
)

// The schema is shared by postgres and sqlite: ids are text uuids, booleans
// are 0/1 integers and timestamps are unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		format           TEXT NOT NULL,
		team_quantity    INTEGER NOT NULL,
		rule             TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		modified_at      BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id       TEXT PRIMARY KEY,
		game_id  TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		name     TEXT NOT NULL,
		color    TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		games    INTEGER NOT NULL DEFAULT 0,
		wins     INTEGER NOT NULL DEFAULT 0,
		draws    INTEGER NOT NULL DEFAULT 0,
		losses   INTEGER NOT NULL DEFAULT 0,
		goals    INTEGER NOT NULL DEFAULT 0,
		conceded INTEGER NOT NULL DEFAULT 0,
		points   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_game_id ON teams(game_id)`,
	`CREATE TABLE IF NOT EXISTS players (
		id       TEXT PRIMARY KEY,
		team_id  TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name     TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		goals    INTEGER NOT NULL DEFAULT 0,
		assists  INTEGER NOT NULL DEFAULT 0,
		dribbles INTEGER NOT NULL DEFAULT 0,
		passes   INTEGER NOT NULL DEFAULT 0,
		shots    INTEGER NOT NULL DEFAULT 0,
		saves    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_players_team_id ON players(team_id)`,
	`CREATE TABLE IF NOT EXISTS live_matches (
		id                   TEXT PRIMARY KEY,
		game_id              TEXT NOT NULL UNIQUE REFERENCES games(id) ON DELETE CASCADE,
		left_team_id         TEXT NOT NULL,
		left_team_name       TEXT NOT NULL,
		left_team_color      TEXT NOT NULL,
		left_goals           INTEGER NOT NULL DEFAULT 0,
		left_win_streak      INTEGER NOT NULL DEFAULT 0,
		right_team_id        TEXT NOT NULL,
		right_team_name      TEXT NOT NULL,
		right_team_color     TEXT NOT NULL,
		right_goals          INTEGER NOT NULL DEFAULT 0,
		right_win_streak     INTEGER NOT NULL DEFAULT 0,
		match_count          INTEGER NOT NULL DEFAULT 0,
		is_live              INTEGER NOT NULL DEFAULT 0,
		last_out_team_id     TEXT NOT NULL,
		awaiting_stay_choice INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS team_history (
		id          TEXT PRIMARY KEY,
		original_id TEXT NOT NULL UNIQUE,
		game_id     TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL,
		games       INTEGER NOT NULL DEFAULT 0,
		wins        INTEGER NOT NULL DEFAULT 0,
		draws       INTEGER NOT NULL DEFAULT 0,
		losses      INTEGER NOT NULL DEFAULT 0,
		goals       INTEGER NOT NULL DEFAULT 0,
		conceded    INTEGER NOT NULL DEFAULT 0,
		points      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS player_history (
		id          TEXT PRIMARY KEY,
		original_id TEXT NOT NULL UNIQUE,
		team_id     TEXT NOT NULL,
		game_id     TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		goals       INTEGER NOT NULL DEFAULT 0,
		assists     INTEGER NOT NULL DEFAULT 0,
		dribbles    INTEGER NOT NULL DEFAULT 0,
		passes      INTEGER NOT NULL DEFAULT 0,
		shots       INTEGER NOT NULL DEFAULT 0,
		saves       INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_history_team_name ON player_history(team_id, name)`,
	`CREATE TABLE IF NOT EXISTS match_timers (
		game_id      TEXT PRIMARY KEY REFERENCES games(id) ON DELETE CASCADE,
		remaining_ms BIGINT NOT NULL
	)`,
}

// Migrate creates any missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
