package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/simulator"
)

// SimulateCmd plays hands on many tables at once with bots
type SimulateCmd struct {
	Table       string  `help:"Table from the config file to simulate (defaults to the first)"`
	Tables      int     `default:"4" help:"Number of tables played concurrently"`
	Hands       int     `default:"1000" help:"Hands per table"`
	Players     int     `default:"6" help:"Players per table"`
	Bots        string  `default:"mixed" enum:"random,call,fold,maniac,mixed" help:"Bot type: random, call, fold, maniac or mixed"`
	Seed        *int64  `help:"Deterministic RNG seed (optional)"`
	TimeoutRate float64 `default:"0.01" help:"Chance that a bot lets a request time out"`
	History     string  `type:"existingdir" help:"Directory receiving one PHH hand history file per table"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, err := stderrLogger(cfg)
	if err != nil {
		return err
	}

	tc := cfg.Tables[0]
	if c.Table != "" {
		var ok bool
		if tc, ok = cfg.Table(c.Table); !ok {
			return fmt.Errorf("table %q is not defined in %s", c.Table, g.Config)
		}
	}
	settings, err := tc.Settings()
	if err != nil {
		return err
	}
	// Tournament tables never start hands on their own.
	settings.Tournament = false
	variant, err := game.ParseVariant(tc.Variant)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Starting simulation", "table", tc.Name, "variant", variant.Name(), "tables", c.Tables, "hands", c.Hands, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	report, err := simulator.Run(ctx, simulator.Config{
		Tables:      c.Tables,
		Hands:       c.Hands,
		Players:     c.Players,
		Bots:        c.Bots,
		Seed:        seed,
		TimeoutRate: c.TimeoutRate,
		HistoryDir:  c.History,
		Variant:     variant,
		Settings:    settings,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Simulation failed: "+err.Error()))
		return err
	}

	fmt.Println(renderReport(report, variant, seed, time.Since(start)))
	return nil
}

func renderReport(r *simulator.Report, v game.Variant, seed int64, elapsed time.Duration) string {
	s := r.Total
	low, high := s.ConfidenceInterval95()
	summary := section("Simulation", [][2]string{
		row("Variant", "%s", v.Name()),
		row("Seed", "%d", seed),
		row("Tables", "%d", len(r.Tables)),
		row("Hands", "%d (%.0f/s)", s.Hands, float64(s.Hands)/max(elapsed.Seconds(), 1e-9)),
		row("Canceled", "%d", s.Canceled),
		row("Showdowns", "%d (%.1f%%)", s.Showdowns, pct(s.Showdowns, s.Played())),
	})
	pots := section("Pots", [][2]string{
		row("Mean", "%.1f ± %.1f", s.Mean(), s.StdError()),
		row("95% CI", "[%.1f, %.1f]", low, high),
		row("Median", "%.0f", s.Median()),
		row("P90", "%.0f", s.Percentile(0.9)),
		row("Largest", "%d", s.MaxPot),
		row("Rake", "%d (%.2f%%)", s.TotalRake, s.RakeRate()*100),
	})

	tables := make([][2]string, 0, len(r.Tables))
	for _, t := range r.Tables {
		line := row(t.ID, "%d chips, %d bought in", t.Chips, t.BoughtIn)
		if t.History != "" {
			line[1] += ", history in " + t.History
		}
		tables = append(tables, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, summary, pots),
		section("Tables", tables),
		winStyle.Render("✓ chips conserved on every table"),
	)
}

func pct(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) * 100 / float64(of)
}
