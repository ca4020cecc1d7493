package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dosada05/pickup-scoreboard/db"
	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

func sqliteStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "scoreboard.db"), 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLStore(conn)
}

func backends(t *testing.T) map[string]*Store {
	return map[string]*Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore(t),
	}
}

type seeded struct {
	game   *models.Game
	teams  []*models.Team
	player *models.Player
	match  *models.LiveMatch
}

func seed(t *testing.T, ctx context.Context, s *Store, name string, modified time.Time) seeded {
	t.Helper()
	game := &models.Game{
		Name:            name,
		Format:          models.Format6x6,
		TeamQuantity:    models.FourTeams,
		DurationMinutes: 9,
		ModifiedAt:      modified,
	}
	game.SetRule(models.FourWinnerStay5)
	if err := s.Games.Create(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}

	var teams []*models.Team
	for i, n := range []string{"Red", "Blue", "Green", "Black"} {
		team := &models.Team{GameID: game.ID, Name: n, Color: models.ColorForIndex(i), Position: i}
		if err := s.Teams.Create(ctx, team); err != nil {
			t.Fatalf("create team: %v", err)
		}
		h := models.NewTeamHistory(*team)
		if err := s.TeamHistory.Create(ctx, &h); err != nil {
			t.Fatalf("create team history: %v", err)
		}
		teams = append(teams, team)
	}

	player := &models.Player{TeamID: teams[1].ID, Name: "amy", Stats: models.Stats{Goals: 2}}
	if err := s.Players.Create(ctx, player); err != nil {
		t.Fatalf("create player: %v", err)
	}
	ph := models.NewPlayerHistory(*player, game.ID, player.Stats)
	if err := s.PlayerHistory.Create(ctx, &ph); err != nil {
		t.Fatalf("create player history: %v", err)
	}

	match := models.NewLiveMatch(game.ID, *teams[0], *teams[1])
	if err := s.Matches.Create(ctx, &match); err != nil {
		t.Fatalf("create live match: %v", err)
	}
	return seeded{game: game, teams: teams, player: player, match: &match}
}

func TestGameRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := seed(t, ctx, s, "Sunday", time.Now())

			got, err := s.Games.GetByID(ctx, d.game.ID)
			if err != nil {
				t.Fatalf("get game: %v", err)
			}
			if got.Name != "Sunday" || got.Format != models.Format6x6 || got.TeamQuantity != models.FourTeams {
				t.Fatalf("unexpected game %+v", got)
			}
			if got.Rule != models.FourWinnerStay5 {
				t.Fatalf("expected rule to be resolved, got %v", got.Rule)
			}
			if got.ModifiedAt.UnixMilli() != d.game.ModifiedAt.UnixMilli() {
				t.Fatalf("expected modified time to survive")
			}

			if _, err := s.Games.GetByID(ctx, uuid.New()); !errors.Is(err, ErrGameNotFound) {
				t.Fatalf("expected ErrGameNotFound, got %v", err)
			}
		})
	}
}

func TestGameListMostRecentFirst(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now()
			seed(t, ctx, s, "old", base.Add(-time.Hour))
			seed(t, ctx, s, "new", base)
			seed(t, ctx, s, "middle", base.Add(-time.Minute))

			games, err := s.Games.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			want := []string{"new", "middle", "old"}
			for i, n := range want {
				if games[i].Name != n {
					t.Fatalf("position %d: expected %s, got %s", i, n, games[i].Name)
				}
			}
		})
	}
}

func TestLiveMatchRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := seed(t, ctx, s, "Sunday", time.Now())

			m := *d.match
			m.Left.Goals = 3
			m.Right.WinStreak = 2
			m.IsLive = true
			m.AwaitingStayChoice = true
			m.LastOutTeamID = d.teams[3].ID
			m.MatchCount = 7
			if err := s.Matches.Update(ctx, &m); err != nil {
				t.Fatalf("update: %v", err)
			}

			got, err := s.Matches.GetByGameID(ctx, d.game.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if *got != m {
				t.Fatalf("expected %+v, got %+v", m, *got)
			}

			dup := models.NewLiveMatch(d.game.ID, *d.teams[2], *d.teams[3])
			if err := s.Matches.Create(ctx, &dup); !errors.Is(err, ErrLiveMatchConflict) {
				t.Fatalf("expected ErrLiveMatchConflict, got %v", err)
			}
		})
	}
}

func TestPlayerHistoryLookups(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := seed(t, ctx, s, "Sunday", time.Now())

			h, err := s.PlayerHistory.GetByTeamAndName(ctx, d.player.TeamID, "amy")
			if err != nil {
				t.Fatalf("lookup by team and name: %v", err)
			}
			if h.OriginalID != d.player.ID || h.Goals != 2 {
				t.Fatalf("unexpected history %+v", h)
			}

			h.OriginalID = uuid.New()
			h.Goals = 5
			if err := s.PlayerHistory.Update(ctx, h); err != nil {
				t.Fatalf("relink: %v", err)
			}
			if _, err := s.PlayerHistory.GetByOriginalID(ctx, d.player.ID); !errors.Is(err, ErrPlayerHistoryNotFound) {
				t.Fatalf("expected old link gone, got %v", err)
			}
			if err := s.PlayerHistory.DeleteByOriginalID(ctx, h.OriginalID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			list, _ := s.PlayerHistory.ListByGame(ctx, d.game.ID)
			if len(list) != 0 {
				t.Fatalf("expected no history left, got %d", len(list))
			}
		})
	}
}

func TestTimerSlot(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := seed(t, ctx, s, "Sunday", time.Now())

			if v, err := s.Timers.Get(ctx, d.game.ID); err != nil || v != 0 {
				t.Fatalf("expected empty slot, got %d (%v)", v, err)
			}
			_ = s.Timers.Save(ctx, d.game.ID, 61000)
			_ = s.Timers.Save(ctx, d.game.ID, 42000)
			if v, _ := s.Timers.Get(ctx, d.game.ID); v != 42000 {
				t.Fatalf("expected 42000, got %d", v)
			}
			_ = s.Timers.Clear(ctx, d.game.ID)
			if v, _ := s.Timers.Get(ctx, d.game.ID); v != 0 {
				t.Fatalf("expected cleared slot, got %d", v)
			}
		})
	}
}

func TestDeleteGameCascades(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := seed(t, ctx, s, "Sunday", time.Now())
			other := seed(t, ctx, s, "Monday", time.Now())
			_ = s.Timers.Save(ctx, d.game.ID, 1000)

			if err := s.Games.Delete(ctx, d.game.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}

			if teams, _ := s.Teams.ListByGame(ctx, d.game.ID); len(teams) != 0 {
				t.Fatalf("expected teams removed, got %d", len(teams))
			}
			if _, err := s.Players.GetByID(ctx, d.player.ID); !errors.Is(err, ErrPlayerNotFound) {
				t.Fatalf("expected player removed, got %v", err)
			}
			if _, err := s.Matches.GetByGameID(ctx, d.game.ID); !errors.Is(err, ErrLiveMatchNotFound) {
				t.Fatalf("expected live match removed, got %v", err)
			}
			if hist, _ := s.TeamHistory.ListByGame(ctx, d.game.ID); len(hist) != 0 {
				t.Fatalf("expected team history removed")
			}
			if hist, _ := s.PlayerHistory.ListByGame(ctx, d.game.ID); len(hist) != 0 {
				t.Fatalf("expected player history removed")
			}
			if v, _ := s.Timers.Get(ctx, d.game.ID); v != 0 {
				t.Fatalf("expected timer removed")
			}

			if teams, _ := s.Teams.ListByGame(ctx, other.game.ID); len(teams) != 4 {
				t.Fatalf("expected other game untouched, got %d teams", len(teams))
			}
			if players, _ := s.Players.ListByGame(ctx, other.game.ID); len(players) != 1 {
				t.Fatalf("expected other game's player untouched")
			}
		})
	}
}
