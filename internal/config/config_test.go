package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/pot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
log {
  level  = "debug"
  format = "json"
}

table "holdem" {
  small_blind  = 10
  big_blind    = 20
  bet_strategy = "POT_LIMIT"

  rake {
    fraction = "0.05"
    cap      = 300
  }

  timing {
    action_timeout = "20s"
  }
}

table "telesina" {
  variant    = "telesina"
  seats      = 8
  ante       = 50
  tournament = true

  rake {
    no_flop_no_drop = false
  }
}
`

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sample), "sample.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	require.Len(t, cfg.Tables, 2)

	holdem, ok := cfg.Table("holdem")
	require.True(t, ok)
	s, err := holdem.Settings()
	require.NoError(t, err)
	assert.Equal(t, 6, s.Seats)
	assert.Equal(t, int64(20), s.Ante, "ante defaults to the big blind")
	assert.Equal(t, int64(1000), s.MinBuyIn)
	assert.Equal(t, int64(4000), s.MaxBuyIn)
	assert.Equal(t, game.PotLimit{}, s.BetStrategy)
	assert.Equal(t, pot.LinearRake{Fraction: decimal.RequireFromString("0.05"), Cap: 300}, s.Rake)
	assert.True(t, s.NoFlopNoDrop)
	assert.Equal(t, 20*time.Second, s.Timing.ActionTimeout)
	assert.Equal(t, game.DefaultTiming().NewHandDelay, s.Timing.NewHandDelay)

	telesina, ok := cfg.Table("telesina")
	require.True(t, ok)
	s, err = telesina.Settings()
	require.NoError(t, err)
	assert.Equal(t, 8, s.Seats)
	assert.True(t, s.Tournament)
	assert.False(t, s.NoFlopNoDrop)
	assert.Equal(t, pot.NoRake{}, s.Rake)

	_, ok = cfg.Table("missing")
	assert.False(t, ok)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Default(), cfg)

	s, err := cfg.Tables[0].Settings()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultSettings().BigBlind, s.BigBlind)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tables.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 2)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`table "x" {`), "bad.hcl")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Parse([]byte(`table "x" { seats = "many" }`), "bad.hcl")
	assert.ErrorContains(t, err, "failed to decode")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no tables", `log { level = "info" }`, "at least one table"},
		{"duplicate", `
table "a" {}
table "a" {}`, "more than once"},
		{"bad level", `
log { level = "loud" }
table "a" {}`, "invalid log level"},
		{"bad format", `
log { format = "xml" }
table "a" {}`, "invalid log format"},
		{"bad variant", `table "a" { variant = "omaha" }`, "unknown variant"},
		{"bad strategy", `table "a" { bet_strategy = "FIXED" }`, "unknown bet strategy"},
		{"bad rake", `
table "a" {
  rake { fraction = "2" }
}`, "rake"},
		{"bad duration", `
table "a" {
  timing { latency_grace = "soon" }
}`, "latency_grace"},
		{"negative duration", `
table "a" {
  timing { new_hand_delay = "-1s" }
}`, "new_hand_delay"},
		{"bad seats", `table "a" { seats = 12 }`, "seats"},
		{"bad buy-in", `table "a" {
  min_buy_in = 500
  max_buy_in = 100
}`, "buy-in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Parse([]byte(tt.src), "test.hcl")
			require.NoError(t, err)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
