package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/google/uuid"
)

// memoryDB holds every table of the in-memory store behind one lock so that
// cascading deletes stay consistent.
type memoryDB struct {
	mu            sync.RWMutex
	games         map[uuid.UUID]models.Game
	teams         map[uuid.UUID]models.Team
	players       map[uuid.UUID]models.Player
	matches       map[uuid.UUID]models.LiveMatch // by game id
	teamHistory   map[uuid.UUID]models.TeamHistory
	playerHistory map[uuid.UUID]models.PlayerHistory
	timers        map[uuid.UUID]int64
}

// NewMemoryStore returns a Store that keeps everything in process memory.
func NewMemoryStore() *Store {
	m := &memoryDB{
		games:         make(map[uuid.UUID]models.Game),
		teams:         make(map[uuid.UUID]models.Team),
		players:       make(map[uuid.UUID]models.Player),
		matches:       make(map[uuid.UUID]models.LiveMatch),
		teamHistory:   make(map[uuid.UUID]models.TeamHistory),
		playerHistory: make(map[uuid.UUID]models.PlayerHistory),
		timers:        make(map[uuid.UUID]int64),
	}
	return &Store{
		Games:         memoryGames{m},
		Teams:         memoryTeams{m},
		Players:       memoryPlayers{m},
		Matches:       memoryMatches{m},
		TeamHistory:   memoryTeamHistory{m},
		PlayerHistory: memoryPlayerHistory{m},
		Timers:        memoryTimers{m},
	}
}

type memoryGames struct{ db *memoryDB }

func (r memoryGames) Create(_ context.Context, game *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	if _, ok := r.db.games[game.ID]; ok {
		return ErrGameConflict
	}
	if game.ModifiedAt.IsZero() {
		game.ModifiedAt = time.Now()
	}
	// match the millisecond precision of the SQL stores
	game.ModifiedAt = time.UnixMilli(game.ModifiedAt.UnixMilli())
	r.db.games[game.ID] = *game
	return nil
}

func (r memoryGames) GetByID(_ context.Context, id uuid.UUID) (*models.Game, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	g, ok := r.db.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	g.ResolveRule()
	return &g, nil
}

func (r memoryGames) List(_ context.Context) ([]*models.Game, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.Game, 0, len(r.db.games))
	for _, g := range r.db.games {
		g := g
		g.ResolveRule()
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ModifiedAt.Equal(out[j].ModifiedAt) {
			return out[i].ModifiedAt.After(out[j].ModifiedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r memoryGames) Update(_ context.Context, game *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.games[game.ID]; !ok {
		return ErrGameNotFound
	}
	game.ModifiedAt = time.UnixMilli(game.ModifiedAt.UnixMilli())
	r.db.games[game.ID] = *game
	return nil
}

func (r memoryGames) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(r.db.games, id)
	for teamID, t := range r.db.teams {
		if t.GameID != id {
			continue
		}
		delete(r.db.teams, teamID)
		for playerID, p := range r.db.players {
			if p.TeamID == teamID {
				delete(r.db.players, playerID)
			}
		}
	}
	delete(r.db.matches, id)
	delete(r.db.timers, id)
	for hid, h := range r.db.teamHistory {
		if h.GameID == id {
			delete(r.db.teamHistory, hid)
		}
	}
	for hid, h := range r.db.playerHistory {
		if h.GameID == id {
			delete(r.db.playerHistory, hid)
		}
	}
	return nil
}

type memoryTeams struct{ db *memoryDB }

func (r memoryTeams) ListByGame(_ context.Context, gameID uuid.UUID) ([]*models.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.Team, 0)
	for _, t := range r.db.teams {
		if t.GameID == gameID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r memoryTeams) GetByID(_ context.Context, id uuid.UUID) (*models.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return &t, nil
}

func (r memoryTeams) Create(_ context.Context, team *models.Team) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	r.db.teams[team.ID] = *team
	return nil
}

func (r memoryTeams) Update(_ context.Context, team *models.Team) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.teams[team.ID]; !ok {
		return ErrTeamNotFound
	}
	r.db.teams[team.ID] = *team
	return nil
}

func (r memoryTeams) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.teams[id]; !ok {
		return ErrTeamNotFound
	}
	delete(r.db.teams, id)
	for playerID, p := range r.db.players {
		if p.TeamID == id {
			delete(r.db.players, playerID)
		}
	}
	return nil
}

type memoryPlayers struct{ db *memoryDB }

func sortPlayers(out []*models.Player, teams map[uuid.UUID]models.Team) {
	sort.Slice(out, func(i, j int) bool {
		ti, tj := teams[out[i].TeamID].Position, teams[out[j].TeamID].Position
		if ti != tj {
			return ti < tj
		}
		return out[i].Position < out[j].Position
	})
}

func (r memoryPlayers) ListByTeam(_ context.Context, teamID uuid.UUID) ([]*models.Player, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.Player, 0)
	for _, p := range r.db.players {
		if p.TeamID == teamID {
			p := p
			out = append(out, &p)
		}
	}
	sortPlayers(out, r.db.teams)
	return out, nil
}

func (r memoryPlayers) ListByGame(_ context.Context, gameID uuid.UUID) ([]*models.Player, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.Player, 0)
	for _, p := range r.db.players {
		if t, ok := r.db.teams[p.TeamID]; ok && t.GameID == gameID {
			p := p
			out = append(out, &p)
		}
	}
	sortPlayers(out, r.db.teams)
	return out, nil
}

func (r memoryPlayers) GetByID(_ context.Context, id uuid.UUID) (*models.Player, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (r memoryPlayers) Create(_ context.Context, player *models.Player) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	r.db.players[player.ID] = *player
	return nil
}

func (r memoryPlayers) Update(_ context.Context, player *models.Player) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.players[player.ID]; !ok {
		return ErrPlayerNotFound
	}
	r.db.players[player.ID] = *player
	return nil
}

func (r memoryPlayers) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.players[id]; !ok {
		return ErrPlayerNotFound
	}
	delete(r.db.players, id)
	return nil
}

type memoryMatches struct{ db *memoryDB }

func (r memoryMatches) GetByGameID(_ context.Context, gameID uuid.UUID) (*models.LiveMatch, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	m, ok := r.db.matches[gameID]
	if !ok {
		return nil, ErrLiveMatchNotFound
	}
	return &m, nil
}

func (r memoryMatches) Create(_ context.Context, m *models.LiveMatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.matches[m.GameID]; ok {
		return ErrLiveMatchConflict
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.db.matches[m.GameID] = *m
	return nil
}

func (r memoryMatches) Update(_ context.Context, m *models.LiveMatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.matches[m.GameID]
	if !ok {
		return ErrLiveMatchNotFound
	}
	updated := *m
	updated.ID = existing.ID
	r.db.matches[m.GameID] = updated
	return nil
}

type memoryTeamHistory struct{ db *memoryDB }

func (r memoryTeamHistory) GetByOriginalID(_ context.Context, originalID uuid.UUID) (*models.TeamHistory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, h := range r.db.teamHistory {
		if h.OriginalID == originalID {
			return &h, nil
		}
	}
	return nil, ErrTeamHistoryNotFound
}

func (r memoryTeamHistory) ListByGame(_ context.Context, gameID uuid.UUID) ([]*models.TeamHistory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.TeamHistory, 0)
	for _, h := range r.db.teamHistory {
		if h.GameID == gameID {
			h := h
			out = append(out, &h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memoryTeamHistory) Create(_ context.Context, h *models.TeamHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.db.teamHistory[h.ID] = *h
	return nil
}

func (r memoryTeamHistory) Update(_ context.Context, h *models.TeamHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.teamHistory[h.ID]
	if !ok {
		return ErrTeamHistoryNotFound
	}
	updated := *h
	updated.GameID = existing.GameID
	r.db.teamHistory[h.ID] = updated
	return nil
}

type memoryPlayerHistory struct{ db *memoryDB }

func (r memoryPlayerHistory) find(match func(models.PlayerHistory) bool) (*models.PlayerHistory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, h := range r.db.playerHistory {
		if match(h) {
			return &h, nil
		}
	}
	return nil, ErrPlayerHistoryNotFound
}

func (r memoryPlayerHistory) list(match func(models.PlayerHistory) bool) []*models.PlayerHistory {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.PlayerHistory, 0)
	for _, h := range r.db.playerHistory {
		if match(h) {
			h := h
			out = append(out, &h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memoryPlayerHistory) GetByOriginalID(_ context.Context, originalID uuid.UUID) (*models.PlayerHistory, error) {
	return r.find(func(h models.PlayerHistory) bool { return h.OriginalID == originalID })
}

func (r memoryPlayerHistory) GetByTeamAndName(_ context.Context, teamID uuid.UUID, name string) (*models.PlayerHistory, error) {
	return r.find(func(h models.PlayerHistory) bool { return h.TeamID == teamID && h.Name == name })
}

func (r memoryPlayerHistory) ListByTeam(_ context.Context, teamID uuid.UUID) ([]*models.PlayerHistory, error) {
	return r.list(func(h models.PlayerHistory) bool { return h.TeamID == teamID }), nil
}

func (r memoryPlayerHistory) ListByGame(_ context.Context, gameID uuid.UUID) ([]*models.PlayerHistory, error) {
	return r.list(func(h models.PlayerHistory) bool { return h.GameID == gameID }), nil
}

func (r memoryPlayerHistory) Create(_ context.Context, h *models.PlayerHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.db.playerHistory[h.ID] = *h
	return nil
}

func (r memoryPlayerHistory) Update(_ context.Context, h *models.PlayerHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.playerHistory[h.ID]
	if !ok {
		return ErrPlayerHistoryNotFound
	}
	updated := *h
	updated.GameID = existing.GameID
	r.db.playerHistory[h.ID] = updated
	return nil
}

func (r memoryPlayerHistory) DeleteByOriginalID(_ context.Context, originalID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, h := range r.db.playerHistory {
		if h.OriginalID == originalID {
			delete(r.db.playerHistory, id)
			return nil
		}
	}
	return ErrPlayerHistoryNotFound
}

type memoryTimers struct{ db *memoryDB }

func (r memoryTimers) Get(_ context.Context, gameID uuid.UUID) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.timers[gameID], nil
}

func (r memoryTimers) Save(_ context.Context, gameID uuid.UUID, remainingMillis int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.timers[gameID] = remainingMillis
	return nil
}

func (r memoryTimers) Clear(_ context.Context, gameID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.timers, gameID)
	return nil
}
