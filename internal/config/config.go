// Package config loads table definitions from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/pot"
)

// Config represents a complete configuration file
type Config struct {
	Log    *LogSettings  `hcl:"log,block"`
	Tables []TableConfig `hcl:"table,block"`
}

// LogSettings configure the process logger
type LogSettings struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// TableConfig defines one poker table
type TableConfig struct {
	Name        string        `hcl:"name,label"`
	Variant     string        `hcl:"variant,optional"`
	Seats       int           `hcl:"seats,optional"`
	Ante        int64         `hcl:"ante,optional"`
	SmallBlind  int64         `hcl:"small_blind,optional"`
	BigBlind    int64         `hcl:"big_blind,optional"`
	EntryBet    int64         `hcl:"entry_bet,optional"`
	MinBuyIn    int64         `hcl:"min_buy_in,optional"`
	MaxBuyIn    int64         `hcl:"max_buy_in,optional"`
	BetStrategy string        `hcl:"bet_strategy,optional"`
	Tournament  bool          `hcl:"tournament,optional"`
	Rake        *RakeConfig   `hcl:"rake,block"`
	Timing      *TimingConfig `hcl:"timing,block"`
}

// RakeConfig is the linear rake of a table. An empty fraction means no rake.
type RakeConfig struct {
	Fraction     string `hcl:"fraction,optional"`
	Cap          int64  `hcl:"cap,optional"`
	NoFlopNoDrop *bool  `hcl:"no_flop_no_drop,optional"`
}

// TimingConfig holds Go duration strings such as "15s"
type TimingConfig struct {
	ActionTimeout      string `hcl:"action_timeout,optional"`
	LatencyGrace       string `hcl:"latency_grace,optional"`
	AutoPostBlindDelay string `hcl:"auto_post_blind_delay,optional"`
	NewHandDelay       string `hcl:"new_hand_delay,optional"`
	CommunityDelay     string `hcl:"community_delay,optional"`
}

// Default returns a configuration with a single default table.
func Default() *Config {
	c := &Config{Tables: []TableConfig{{Name: "main"}}}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// default configuration.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	d := game.DefaultSettings()
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Variant == "" {
			t.Variant = game.TexasHoldem{}.Name()
		}
		if t.Seats == 0 {
			t.Seats = d.Seats
		}
		if t.SmallBlind == 0 {
			t.SmallBlind = d.SmallBlind
		}
		if t.BigBlind == 0 {
			t.BigBlind = t.SmallBlind * 2
		}
		if t.Ante == 0 {
			t.Ante = t.BigBlind
		}
		if t.MinBuyIn == 0 {
			t.MinBuyIn = t.BigBlind * 50
		}
		if t.MaxBuyIn == 0 {
			t.MaxBuyIn = t.BigBlind * 200
		}
		if t.BetStrategy == "" {
			t.BetStrategy = d.BetStrategy.Name()
		}
		if t.Rake == nil {
			t.Rake = &RakeConfig{}
		}
		if t.Rake.NoFlopNoDrop == nil {
			on := true
			t.Rake.NoFlopNoDrop = &on
		}
		if t.Timing == nil {
			t.Timing = &TimingConfig{}
		}
		t.Timing.applyDefaults(d.Timing)
	}
}

func (t *TimingConfig) applyDefaults(d game.Timing) {
	for _, f := range []struct {
		value *string
		def   time.Duration
	}{
		{&t.ActionTimeout, d.ActionTimeout},
		{&t.LatencyGrace, d.LatencyGrace},
		{&t.AutoPostBlindDelay, d.AutoPostBlindDelay},
		{&t.NewHandDelay, d.NewHandDelay},
		{&t.CommunityDelay, d.CommunityDelay},
	} {
		if *f.value == "" {
			*f.value = f.def.String()
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}
	seen := map[string]bool{}
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s: defined more than once", t.Name)
		}
		seen[t.Name] = true
		if _, err := t.Settings(); err != nil {
			return err
		}
		if _, err := game.ParseVariant(t.Variant); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

// Table returns a table configuration by name
func (c *Config) Table(name string) (TableConfig, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}

// Settings converts the table configuration into engine settings.
func (t TableConfig) Settings() (game.Settings, error) {
	strategy, err := game.ParseBetStrategy(t.BetStrategy)
	if err != nil {
		return game.Settings{}, fmt.Errorf("table %s: %w", t.Name, err)
	}
	s := game.Settings{
		Seats:        t.Seats,
		Ante:         t.Ante,
		SmallBlind:   t.SmallBlind,
		BigBlind:     t.BigBlind,
		EntryBet:     t.EntryBet,
		MinBuyIn:     t.MinBuyIn,
		MaxBuyIn:     t.MaxBuyIn,
		BetStrategy:  strategy,
		Rake:         pot.NoRake{},
		NoFlopNoDrop: true,
		Tournament:   t.Tournament,
	}
	if t.Rake != nil {
		if t.Rake.Fraction != "" {
			rake, err := pot.NewLinearRake(t.Rake.Fraction, t.Rake.Cap)
			if err != nil {
				return game.Settings{}, fmt.Errorf("table %s: rake: %w", t.Name, err)
			}
			s.Rake = rake
		}
		if t.Rake.NoFlopNoDrop != nil {
			s.NoFlopNoDrop = *t.Rake.NoFlopNoDrop
		}
	}
	s.Timing = game.DefaultTiming()
	if t.Timing != nil {
		if s.Timing, err = t.Timing.parse(s.Timing); err != nil {
			return game.Settings{}, fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	if err := s.Validate(); err != nil {
		return game.Settings{}, fmt.Errorf("table %s: %w", t.Name, err)
	}
	return s, nil
}

func (t TimingConfig) parse(d game.Timing) (game.Timing, error) {
	for _, f := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"action_timeout", t.ActionTimeout, &d.ActionTimeout},
		{"latency_grace", t.LatencyGrace, &d.LatencyGrace},
		{"auto_post_blind_delay", t.AutoPostBlindDelay, &d.AutoPostBlindDelay},
		{"new_hand_delay", t.NewHandDelay, &d.NewHandDelay},
		{"community_delay", t.CommunityDelay, &d.CommunityDelay},
	} {
		if f.value == "" {
			continue
		}
		v, err := time.ParseDuration(f.value)
		if err != nil {
			return game.Timing{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if v < 0 {
			return game.Timing{}, fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = v
	}
	return d, nil
}
