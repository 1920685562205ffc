// Package simulator plays many hands on many tables with bots and checks
// that no chips are created or destroyed along the way.
package simulator

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/bot"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/history"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/internal/statistics"
	"github.com/lox/pokertable/internal/table"
)

// Config holds configuration for running simulations
type Config struct {
	Tables  int
	Hands   int // per table
	Players int // per table
	Bots    string
	Seed    int64

	// TimeoutRate is the chance that a bot lets an action request time out.
	TimeoutRate float64
	// HistoryDir, when set, receives one PHH session file per table.
	HistoryDir string

	Variant  game.Variant
	Settings game.Settings
	Clock    quartz.Clock
	Logger   *log.Logger
}

// DefaultConfig returns a small texas hold'em simulation
func DefaultConfig() Config {
	return Config{
		Tables:      4,
		Hands:       200,
		Players:     6,
		Bots:        "mixed",
		TimeoutRate: 0.01,
		Variant:     game.TexasHoldem{},
		Settings:    game.DefaultSettings(),
	}
}

// TableResult summarizes one simulated table
type TableResult struct {
	ID       string
	Stats    *statistics.Statistics
	Bots     map[string]string
	BoughtIn int64
	Chips    int64 // player chips at the end
	History  string
}

// Report is the outcome of a simulation run
type Report struct {
	Tables []TableResult
	Total  *statistics.Statistics
}

func (c Config) validate() error {
	if c.Tables < 1 || c.Hands < 1 {
		return fmt.Errorf("tables and hands must be positive")
	}
	if c.Players < 2 || c.Players > c.Settings.Seats {
		return fmt.Errorf("players must be between 2 and %d, got %d", c.Settings.Seats, c.Players)
	}
	if c.Settings.Tournament {
		return errors.New("tournament tables are started by the host and cannot be simulated")
	}
	if c.TimeoutRate < 0 || c.TimeoutRate >= 1 {
		return fmt.Errorf("timeout rate %v outside [0, 1)", c.TimeoutRate)
	}
	return c.Settings.Validate()
}

// Run plays every table on its own goroutine. The first failing table
// cancels the others.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Variant == nil {
		cfg.Variant = game.TexasHoldem{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Bots == "" {
		cfg.Bots = "mixed"
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation: %w", err)
	}

	results := make([]TableResult, cfg.Tables)
	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Tables {
		g.Go(func() error {
			res, err := playTable(ctx, cfg, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Tables: results, Total: &statistics.Statistics{}}
	for _, r := range results {
		report.Total.Merge(r.Stats)
	}
	if err := report.Total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return report, nil
}

func playTable(ctx context.Context, cfg Config, n int) (TableResult, error) {
	id := fmt.Sprintf("sim-%d", n)
	d := newDriver(cfg, randutil.ForTable(^cfg.Seed, n))
	d.logger = cfg.Logger.WithPrefix("simulator").With("table", id)
	if cfg.HistoryDir != "" {
		d.history = history.NewRecorder(history.Config{
			TableID:          id,
			Variant:          cfg.Variant,
			Settings:         cfg.Settings,
			IncludeHoleCards: true,
			Clock:            cfg.Clock,
		})
	}

	t, err := table.New(table.Config{
		ID:       id,
		Variant:  cfg.Variant,
		Settings: cfg.Settings,
		Adapter:  d,
		Logger:   cfg.Logger,
		Rand:     randutil.ForTable(cfg.Seed, n),
		Clock:    cfg.Clock,
	})
	if err != nil {
		return TableResult{}, err
	}
	d.table = t

	res := TableResult{ID: id, Bots: map[string]string{}}
	for seat := range cfg.Players {
		pid := fmt.Sprintf("p%d", seat)
		b, err := bot.New(cfg.Bots, d.rng)
		if err != nil {
			return TableResult{}, err
		}
		d.bots[pid] = b
		res.Bots[pid] = b.Name()
		if err := t.AddPlayer(pid, seat, cfg.Settings.MaxBuyIn); err != nil {
			return TableResult{}, err
		}
		if seat%3 == 2 {
			if err := t.SetAutoPostBlinds(pid, true); err != nil {
				return TableResult{}, err
			}
		}
		d.initial += cfg.Settings.MaxBuyIn
	}

	if err := d.run(ctx, cfg.Hands); err != nil {
		return TableResult{}, err
	}
	t.Shutdown()

	res.Stats = d.stats
	res.BoughtIn = d.boughtIn
	res.Chips = d.chips()
	if d.history != nil {
		res.History = filepath.Join(cfg.HistoryDir, id+".phhs")
		if err := d.history.Save(res.History); err != nil {
			return TableResult{}, err
		}
	}
	d.logger.Info("table finished", "hands", d.stats.Hands, "rake", d.stats.TotalRake, "bought_in", d.boughtIn)
	return res, nil
}

// driver owns one table. It answers requests with bots and fires scheduled
// timeouts in the order they were scheduled, without waiting.
type driver struct {
	table       *table.Table
	rng         *rand.Rand
	logger      *log.Logger
	timeoutRate float64
	bots        map[string]bot.Bot
	history     *history.Recorder

	pending  []game.ActionRequest
	timeouts []game.Timeout
	buyIns   map[string]game.BuyInInfo
	ended    bool

	stats    *statistics.Statistics
	initial  int64
	boughtIn int64
}

func newDriver(cfg Config, rng *rand.Rand) *driver {
	return &driver{
		rng:         rng,
		timeoutRate: cfg.TimeoutRate,
		bots:        map[string]bot.Bot{},
		buyIns:      map[string]game.BuyInInfo{},
		stats:       &statistics.Statistics{},
	}
}

func (d *driver) run(ctx context.Context, hands int) error {
	for d.stats.Hands < hands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.step(); err != nil {
			return err
		}
		if d.ended {
			d.ended = false
			if err := d.afterHand(); err != nil {
				return err
			}
		}
	}
	return nil
}

// step performs one bot action or fires one timeout.
func (d *driver) step() error {
	if req, ok := d.nextRequest(); ok {
		if d.rng.Float64() < d.timeoutRate {
			d.logger.Debug("letting request time out", "player", req.PlayerID, "seq", req.Seq)
			return d.table.HandleTimeout(game.Timeout{Kind: game.PlayerTimeout, PlayerID: req.PlayerID, Seq: req.Seq})
		}
		a := d.bots[req.PlayerID].Decide(req)
		if err := d.table.Act(a); err != nil {
			return fmt.Errorf("bot %s: %w", a, err)
		}
		return nil
	}
	if len(d.timeouts) > 0 {
		to := d.timeouts[0]
		d.timeouts = d.timeouts[1:]
		return d.table.HandleTimeout(to)
	}
	return fmt.Errorf("stalled in %s after %d hands", d.table.State(), d.stats.Hands)
}

// nextRequest returns the oldest request a bot should answer. Blind requests
// of auto-posting players are left to their timeout.
func (d *driver) nextRequest() (game.ActionRequest, bool) {
	for _, req := range d.pending {
		if d.autoPosting(req) {
			continue
		}
		return req, true
	}
	return game.ActionRequest{}, false
}

func (d *driver) autoPosting(req game.ActionRequest) bool {
	for _, to := range d.timeouts {
		if to.Kind == game.AutoPostBlind && to.PlayerID == req.PlayerID && to.Seq == req.Seq {
			return true
		}
	}
	return false
}

// afterHand checks conservation, then tops up broke players and sits
// everyone back in.
func (d *driver) afterHand() error {
	if got, want := d.chips()+d.stats.TotalRake, d.initial+d.boughtIn; got != want {
		return fmt.Errorf("chips not conserved after hand %d: players+rake=%d, expected %d", d.stats.Hands, got, want)
	}

	for _, p := range d.table.Players() {
		if info, ok := d.buyIns[p.ID]; ok && info.Max > 0 {
			if err := d.table.BuyIn(p.ID, info.Max); err != nil {
				return err
			}
			d.boughtIn += info.Max
		}
		if p.SittingOut() {
			if err := d.table.SitIn(p.ID); err != nil {
				return err
			}
		}
	}
	clear(d.buyIns)
	return nil
}

func (d *driver) chips() int64 {
	var total int64
	for _, p := range d.table.Players() {
		total += p.Balance + p.PendingBalance
	}
	return total
}
