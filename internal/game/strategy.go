package game

import "fmt"

// BetContext is what a bet strategy needs to bound a bet or raise.
type BetContext struct {
	// HighBet is the bet level to call.
	HighBet int64
	// MinRaise is the size of the last full raise, or the big blind.
	MinRaise int64
	BigBlind int64
	// PotSize counts collected pots plus every bet stack on the table.
	PotSize  int64
	BetStack int64
	Balance  int64
}

// BetStrategy bounds the total bet a player may make when betting or raising.
type BetStrategy interface {
	Name() string
	MinBet(c BetContext) int64
	MaxBet(c BetContext) int64
}

// NoLimit allows betting the whole stack.
type NoLimit struct{}

func (NoLimit) Name() string { return "NO_LIMIT" }

func (NoLimit) MinBet(c BetContext) int64 {
	return min(minRaiseTo(c), c.BetStack+c.Balance)
}

func (NoLimit) MaxBet(c BetContext) int64 {
	return c.BetStack + c.Balance
}

// PotLimit caps a raise at the size of the pot after calling.
type PotLimit struct{}

func (PotLimit) Name() string { return "POT_LIMIT" }

func (PotLimit) MinBet(c BetContext) int64 {
	return NoLimit{}.MinBet(c)
}

func (PotLimit) MaxBet(c BetContext) int64 {
	toCall := c.HighBet - c.BetStack
	limit := c.HighBet + c.PotSize + toCall
	return max(min(limit, c.BetStack+c.Balance), PotLimit{}.MinBet(c))
}

func minRaiseTo(c BetContext) int64 {
	if c.HighBet == 0 {
		return c.BigBlind
	}
	return c.HighBet + c.MinRaise
}

// ParseBetStrategy resolves a strategy by name.
func ParseBetStrategy(name string) (BetStrategy, error) {
	switch name {
	case "", NoLimit{}.Name():
		return NoLimit{}, nil
	case PotLimit{}.Name():
		return PotLimit{}, nil
	}
	return nil, fmt.Errorf("unknown bet strategy %q", name)
}
