package simulator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/pot"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Tables = 3
	cfg.Hands = 40
	cfg.Seed = 12345
	cfg.Logger = log.New(io.Discard)
	return cfg
}

func TestRunTexasHoldem(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, report.Tables, 3)

	for _, tr := range report.Tables {
		assert.Equal(t, cfg.Hands, tr.Stats.Hands, tr.ID)
		assert.Equal(t, int64(cfg.Players)*cfg.Settings.MaxBuyIn+tr.BoughtIn, tr.Chips+tr.Stats.TotalRake, tr.ID)
		assert.Len(t, tr.Bots, cfg.Players)
	}
	assert.Equal(t, cfg.Tables*cfg.Hands, report.Total.Hands)
	assert.Zero(t, report.Total.TotalRake)
	require.NoError(t, report.Total.Validate())
}

func TestRunWithRake(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	rake, err := pot.NewLinearRake("0.05", 500)
	require.NoError(t, err)
	cfg.Settings.Rake = rake
	cfg.Bots = "call"

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Positive(t, report.Total.TotalRake)
	assert.LessOrEqual(t, report.Total.RakeRate(), 0.05)
	for _, tr := range report.Tables {
		assert.Equal(t, int64(cfg.Players)*cfg.Settings.MaxBuyIn+tr.BoughtIn, tr.Chips+tr.Stats.TotalRake, tr.ID)
	}
}

func TestRunTelesina(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Variant = game.Telesina{}
	cfg.Players = 4
	cfg.Bots = "maniac"

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Tables*cfg.Hands, report.Total.Hands)
	assert.Positive(t, report.Total.Showdowns)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Tables = 2

	first, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	for i := range first.Tables {
		assert.Equal(t, first.Tables[i].Bots, second.Tables[i].Bots)
		assert.Equal(t, first.Tables[i].Stats.Pots, second.Tables[i].Stats.Pots)
		assert.Equal(t, first.Tables[i].BoughtIn, second.Tables[i].BoughtIn)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		modify func(*Config)
		err    string
	}{
		{"no tables", func(c *Config) { c.Tables = 0 }, "tables and hands"},
		{"one player", func(c *Config) { c.Players = 1 }, "players must be between"},
		{"too many players", func(c *Config) { c.Players = 7 }, "players must be between"},
		{"tournament", func(c *Config) { c.Settings.Tournament = true }, "tournament"},
		{"timeout rate", func(c *Config) { c.TimeoutRate = 1 }, "timeout rate"},
		{"unknown bot", func(c *Config) { c.Bots = "shark" }, "unknown bot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			tt.modify(&cfg)
			_, err := Run(context.Background(), cfg)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestRunWritesHandHistories(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Tables = 2
	cfg.Hands = 15
	cfg.HistoryDir = t.TempDir()

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	for _, tr := range report.Tables {
		require.Equal(t, filepath.Join(cfg.HistoryDir, tr.ID+".phhs"), tr.History)
		data, err := os.ReadFile(tr.History)
		require.NoError(t, err)

		hands, err := phh.DecodeSession(data)
		require.NoError(t, err)
		assert.Equal(t, tr.Stats.Played(), len(hands), tr.ID)
		for _, h := range hands {
			assert.Equal(t, "NT", h.Variant)
			assert.Equal(t, tr.ID, h.Table)
			assert.NotEmpty(t, h.Actions)
			var start, finish int64
			for i := range h.StartingStacks {
				start += h.StartingStacks[i]
				finish += h.FinishingStacks[i]
			}
			assert.Equal(t, start, finish, "no rake configured, hand %s", h.HandID)
		}
	}
}
