// Package host runs one table in-process: it serializes commands and
// timeouts through a single goroutine, delivers events to players and keeps
// the replay cache.
package host

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/protocol"
	"github.com/lox/pokertable/internal/replay"
	"github.com/lox/pokertable/internal/table"
)

// ErrStopped is returned for commands sent after the host stopped.
var ErrStopped = errors.New("host stopped")

// Outbox delivers serialized events to connected players.
type Outbox interface {
	// Send delivers to a single player.
	Send(playerID string, data []byte)
	// Broadcast delivers to every player but exclude. An empty exclude
	// reaches everyone.
	Broadcast(data []byte, exclude string)
}

// Config configures a host and the table it owns.
type Config struct {
	TableID  string
	Variant  game.Variant
	Settings game.Settings
	Rand     *rand.Rand
	Clock    quartz.Clock
	Logger   *log.Logger
	Outbox   Outbox
	// DeckFactory overrides the variant deck, used for rigged decks.
	DeckFactory func(participants int) *deck.Deck
	// OnTournamentRound receives tournament reports, if set.
	OnTournamentRound func(game.TournamentReport)
}

type command struct {
	fn   func() error
	done chan error
}

// Host owns a table and everything that touches it.
type Host struct {
	clock    quartz.Clock
	logger   *log.Logger
	outbox   Outbox
	cache    *replay.Cache
	table    *table.Table
	timing   game.Timing
	onReport func(game.TournamentReport)
	commands chan command
	stopped  chan struct{}
	stopOnce sync.Once

	// owned by the loop goroutine
	handID      string
	timers      map[*quartz.Timer]struct{}
	playerTimer map[string]*quartz.Timer
	deadline    map[string]time.Time
}

// New creates a host. Call Run to start processing.
func New(cfg Config) (*Host, error) {
	if cfg.Outbox == nil {
		return nil, fmt.Errorf("host %s: outbox is required", cfg.TableID)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	h := &Host{
		clock:    cfg.Clock,
		logger:   cfg.Logger.WithPrefix("host").With("table", cfg.TableID),
		outbox:   cfg.Outbox,
		cache:    replay.NewCache(cfg.Clock, cfg.Logger),
		timing:   cfg.Settings.Timing,
		onReport: cfg.OnTournamentRound,
		commands: make(chan command),
		stopped:  make(chan struct{}),

		timers:      map[*quartz.Timer]struct{}{},
		playerTimer: map[string]*quartz.Timer{},
		deadline:    map[string]time.Time{},
	}
	t, err := table.New(table.Config{
		ID:          cfg.TableID,
		Variant:     cfg.Variant,
		Settings:    cfg.Settings,
		Adapter:     h,
		Logger:      cfg.Logger,
		Rand:        cfg.Rand,
		Clock:       cfg.Clock,
		DeckFactory: cfg.DeckFactory,
	})
	if err != nil {
		return nil, err
	}
	h.table = t
	return h, nil
}

// Run processes commands until ctx is canceled or the table shuts down.
func (h *Host) Run(ctx context.Context) error {
	h.logger.Info("host started")
	defer h.logger.Info("host stopped")
	for {
		select {
		case <-ctx.Done():
			h.stopTimers()
			h.stop()
			return ctx.Err()
		case <-h.stopped:
			return nil
		case cmd := <-h.commands:
			cmd.done <- h.safely(cmd.fn)
		}
	}
}

// safely turns a contract violation inside the engine into an error so one
// bad command does not take the process down.
func (h *Host) safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("command panicked", "panic", r)
			err = fmt.Errorf("table %s: %v", h.table.ID(), r)
		}
	}()
	return fn()
}

// Do runs fn on the loop goroutine and returns its error.
func (h *Host) Do(ctx context.Context, fn func(t *table.Table) error) error {
	cmd := command{fn: func() error { return fn(h.table) }, done: make(chan error, 1)}
	select {
	case h.commands <- cmd:
	case <-h.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) AddPlayer(ctx context.Context, playerID string, seat int, balance int64) error {
	return h.Do(ctx, func(t *table.Table) error { return t.AddPlayer(playerID, seat, balance) })
}

func (h *Host) RemovePlayer(ctx context.Context, playerID string) error {
	return h.Do(ctx, func(t *table.Table) error { return t.RemovePlayer(playerID) })
}

func (h *Host) Act(ctx context.Context, a game.PlayerAction) error {
	return h.Do(ctx, func(t *table.Table) error { return t.Act(a) })
}

func (h *Host) BuyIn(ctx context.Context, playerID string, amount int64) error {
	return h.Do(ctx, func(t *table.Table) error { return t.BuyIn(playerID, amount) })
}

func (h *Host) SitIn(ctx context.Context, playerID string) error {
	return h.Do(ctx, func(t *table.Table) error { return t.SitIn(playerID) })
}

func (h *Host) SitOut(ctx context.Context, playerID string) error {
	return h.Do(ctx, func(t *table.Table) error { return t.SitOut(playerID) })
}

// StartHand starts a tournament hand.
func (h *Host) StartHand(ctx context.Context) error {
	return h.Do(ctx, func(t *table.Table) error {
		t.StartHand()
		return nil
	})
}

// Disconnect tells the table a player dropped. The notice carries the time the
// player has left on an outstanding request.
func (h *Host) Disconnect(ctx context.Context, playerID string) error {
	return h.Do(ctx, func(t *table.Table) error {
		if _, ok := t.Player(playerID); !ok {
			return fmt.Errorf("%w: %s", table.ErrUnknownPlayer, playerID)
		}
		var timebank time.Duration
		if d, ok := h.deadline[playerID]; ok {
			timebank = max(0, d.Sub(h.clock.Now()))
		}
		h.logger.Info("player disconnected", "player", playerID, "timebank", timebank)
		h.public(protocol.NewPlayerDisconnected(playerID, timebank), "")
		return nil
	})
}

// Reconnect sends the replay of the running hand to a player.
func (h *Host) Reconnect(ctx context.Context, playerID string) error {
	return h.Do(ctx, func(t *table.Table) error {
		events := h.cache.Replay(playerID)
		h.logger.Debug("replaying hand", "player", playerID, "events", len(events))
		for _, e := range events {
			h.outbox.Send(playerID, e)
		}
		return nil
	})
}

// Replay returns the events a reconnecting player would receive.
func (h *Host) Replay(playerID string) [][]byte {
	return h.cache.Replay(playerID)
}

// Shutdown stops the table and the host loop.
func (h *Host) Shutdown(ctx context.Context) error {
	err := h.Do(ctx, func(t *table.Table) error {
		t.Shutdown()
		h.stopTimers()
		h.cache.Clear()
		return nil
	})
	if err != nil {
		return err
	}
	h.stop()
	return nil
}

// State returns the table state as seen from the loop.
func (h *Host) State(ctx context.Context) (table.State, error) {
	var s table.State
	err := h.Do(ctx, func(t *table.Table) error {
		s = t.State()
		return nil
	})
	return s, err
}

func (h *Host) stop() {
	h.stopOnce.Do(func() { close(h.stopped) })
}

func (h *Host) schedule(d time.Duration, to game.Timeout) *quartz.Timer {
	var timer *quartz.Timer
	timer = h.clock.AfterFunc(d, func() {
		cmd := command{done: make(chan error, 1), fn: func() error {
			delete(h.timers, timer)
			return h.table.HandleTimeout(to)
		}}
		select {
		case h.commands <- cmd:
		case <-h.stopped:
			return
		}
		if err := <-cmd.done; err != nil {
			h.logger.Error("timeout failed", "kind", to.Kind, "player", to.PlayerID, "error", err)
		}
	}, "host", "timeout")
	h.timers[timer] = struct{}{}
	return timer
}

// cancelPlayerTimeout stops the timeout of an answered request.
func (h *Host) cancelPlayerTimeout(playerID string) {
	if t, ok := h.playerTimer[playerID]; ok {
		t.Stop()
		delete(h.timers, t)
		delete(h.playerTimer, playerID)
	}
	delete(h.deadline, playerID)
}

func (h *Host) stopTimers() {
	for t := range h.timers {
		t.Stop()
	}
	clear(h.timers)
	clear(h.playerTimer)
}
