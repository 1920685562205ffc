package game

import (
	"fmt"

	"github.com/lox/pokertable/internal/pot"
)

// Settings configure one table.
type Settings struct {
	Seats      int
	Ante       int64
	SmallBlind int64
	BigBlind   int64
	// EntryBet is the balance a player needs to join a hand. Zero means the
	// variant's forced bet is used.
	EntryBet     int64
	MinBuyIn     int64
	MaxBuyIn     int64
	BetStrategy  BetStrategy
	Rake         pot.RakeCalculator
	NoFlopNoDrop bool
	Tournament   bool
	Timing       Timing
}

// DefaultSettings returns a six seat 50/100 no-limit table without rake.
func DefaultSettings() Settings {
	return Settings{
		Seats:        6,
		Ante:         100,
		SmallBlind:   50,
		BigBlind:     100,
		MinBuyIn:     5000,
		MaxBuyIn:     20000,
		BetStrategy:  NoLimit{},
		Rake:         pot.NoRake{},
		NoFlopNoDrop: true,
		Timing:       DefaultTiming(),
	}
}

// Validate reports the first inconsistent setting.
func (s Settings) Validate() error {
	if s.Seats < 2 || s.Seats > 10 {
		return fmt.Errorf("seats must be between 2 and 10, got %d", s.Seats)
	}
	if s.SmallBlind <= 0 || s.BigBlind < s.SmallBlind {
		return fmt.Errorf("invalid blinds %d/%d", s.SmallBlind, s.BigBlind)
	}
	if s.Ante < 0 || s.EntryBet < 0 {
		return fmt.Errorf("ante and entry bet must not be negative")
	}
	if s.MinBuyIn <= 0 || s.MinBuyIn > s.MaxBuyIn {
		return fmt.Errorf("invalid buy-in range [%d, %d]", s.MinBuyIn, s.MaxBuyIn)
	}
	if s.BetStrategy == nil {
		return fmt.Errorf("bet strategy is required")
	}
	return nil
}
