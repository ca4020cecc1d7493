package services

import (
	"sync"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/stats"
	"github.com/google/uuid"
)

type EffectType string

const (
	EffectConfirmFinish     EffectType = "confirm_finish"
	EffectChooseStayingTeam EffectType = "choose_staying_team"
	EffectBestPlayers       EffectType = "best_players"
	EffectSnackbar          EffectType = "snackbar"
)

// Effect is a one-shot instruction for the UI: a prompt to show or a message
// to flash.
type Effect struct {
	Type        EffectType         `json:"type"`
	Message     string             `json:"message,omitempty"`
	Sides       []models.SideState `json:"sides,omitempty"`
	BestPlayers []stats.BestPlayer `json:"best_players,omitempty"`
}

func snackbar(message string) *Effect {
	return &Effect{Type: EffectSnackbar, Message: message}
}

// EffectQueue holds at most one pending effect per game. A newer effect
// replaces one the UI has not picked up yet.
type EffectQueue struct {
	mu      sync.Mutex
	pending map[uuid.UUID]Effect
}

func NewEffectQueue() *EffectQueue {
	return &EffectQueue{pending: make(map[uuid.UUID]Effect)}
}

func (q *EffectQueue) Push(gameID uuid.UUID, e Effect) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[gameID] = e
}

// Peek returns the pending effect without consuming it.
func (q *EffectQueue) Peek(gameID uuid.UUID) (Effect, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.pending[gameID]
	return e, ok
}

// Ack consumes the pending effect of gameID. It reports whether there was one.
func (q *EffectQueue) Ack(gameID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[gameID]
	delete(q.pending, gameID)
	return ok
}

func (q *EffectQueue) Drop(gameID uuid.UUID) {
	q.Ack(gameID)
}
