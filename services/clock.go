package services

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/pickup-scoreboard/live"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const tickInterval = time.Second

// TimerState is the countdown of one game as shown on the scoreboard.
type TimerState struct {
	RemainingMillis int64  `json:"remaining_ms"`
	Display         string `json:"display"`
	Running         bool   `json:"running"`
}

// FormatMillis renders a countdown as MM:SS. Negative values show as 00:00.
func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

type countdown struct {
	remaining int64
	job       uuid.UUID
	running   bool
	// gen identifies the scheduled job; ticks from a removed job carry an
	// older value and are ignored.
	gen uint64
}

// MatchClock runs a one-second countdown per game on a gocron scheduler and
// publishes every tick to the game's room.
type MatchClock struct {
	mu     sync.Mutex
	sched  gocron.Scheduler
	timers map[uuid.UUID]*countdown
	gen    uint64
	hub    Broadcaster
	logger *slog.Logger
}

func NewMatchClock(hub Broadcaster, logger *slog.Logger) (*MatchClock, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create clock scheduler: %w", err)
	}
	sched.Start()
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &MatchClock{
		sched:  sched,
		timers: make(map[uuid.UUID]*countdown),
		hub:    hub,
		logger: logger,
	}, nil
}

// Start counts down from millis, replacing any countdown the game had.
func (c *MatchClock) Start(gameID uuid.UUID, millis int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeJob(gameID)
	c.timers[gameID] = &countdown{remaining: millis}
	return c.schedule(gameID)
}

// Resume continues a paused countdown. It reports false when there is none.
func (c *MatchClock) Resume(gameID uuid.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.timers[gameID]
	if !ok || t.remaining <= 0 {
		return false, nil
	}
	if t.running {
		return true, nil
	}
	return true, c.schedule(gameID)
}

// Pause stops the countdown and keeps the remaining time.
func (c *MatchClock) Pause(gameID uuid.UUID) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeJob(gameID)
	if t, ok := c.timers[gameID]; ok {
		return t.remaining
	}
	return 0
}

// Stop forgets the countdown of gameID.
func (c *MatchClock) Stop(gameID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeJob(gameID)
	delete(c.timers, gameID)
}

// State reports the countdown of gameID; ok is false when none was started.
func (c *MatchClock) State(gameID uuid.UUID) (TimerState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.timers[gameID]
	if !ok {
		return TimerState{}, false
	}
	return TimerState{RemainingMillis: t.remaining, Display: FormatMillis(t.remaining), Running: t.running}, true
}

func (c *MatchClock) Shutdown() error {
	return c.sched.Shutdown()
}

// schedule must be called with c.mu held.
func (c *MatchClock) schedule(gameID uuid.UUID) error {
	c.gen++
	gen := c.gen
	t := c.timers[gameID]
	job, err := c.sched.NewJob(
		gocron.DurationJob(tickInterval),
		gocron.NewTask(func() { c.tick(gameID, gen) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(gameID.String()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule clock for game %s: %w", gameID, err)
	}
	t.job = job.ID()
	t.gen = gen
	t.running = true
	return nil
}

// removeJob must be called with c.mu held.
func (c *MatchClock) removeJob(gameID uuid.UUID) {
	t, ok := c.timers[gameID]
	if !ok || !t.running {
		return
	}
	if err := c.sched.RemoveJob(t.job); err != nil {
		c.logger.Warn("failed to remove clock job", slog.String("game_id", gameID.String()), slog.Any("error", err))
	}
	t.running = false
	t.job = uuid.Nil
}

func (c *MatchClock) tick(gameID uuid.UUID, gen uint64) {
	c.mu.Lock()
	t, ok := c.timers[gameID]
	if !ok || !t.running || t.gen != gen {
		c.mu.Unlock()
		return
	}
	t.remaining -= tickInterval.Milliseconds()
	if t.remaining <= 0 {
		t.remaining = 0
		c.removeJob(gameID)
	}
	state := TimerState{RemainingMillis: t.remaining, Display: FormatMillis(t.remaining), Running: t.running}
	c.mu.Unlock()

	room := live.RoomForGame(gameID)
	c.hub.BroadcastToRoom(room, live.Message{Type: live.MessageTimerTick, Payload: state, RoomID: room})
}
