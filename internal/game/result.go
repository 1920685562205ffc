package game

import (
	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/evaluator"
	"github.com/lox/pokertable/internal/pot"
)

// HandEndStatus tells how a hand ended
type HandEndStatus int

const (
	HandEndNormal HandEndStatus = iota
	HandEndCanceledTooFewPlayers
)

func (s HandEndStatus) String() string {
	return [...]string{"NORMAL", "CANCELED_TOO_FEW_PLAYERS"}[s]
}

// PlayerResult holds one player's figures for a finished hand.
type PlayerResult struct {
	PlayerID string
	Seat     int
	// AggregatedBet is every chip the player put into the pots.
	AggregatedBet int64
	// WinningsIncludingOwnBets is what the player takes from the pots.
	WinningsIncludingOwnBets int64
	Rake                     int64
}

// Net is the player's profit for the hand.
func (r PlayerResult) Net() int64 {
	return r.WinningsIncludingOwnBets - r.AggregatedBet
}

// RatedHand is a showdown hand with its evaluated strength.
type RatedHand struct {
	PlayerID string
	Cards    []deck.Card
	Hand     evaluator.Hand
}

// HandResult is created once at hand end and never modified.
type HandResult struct {
	// HandID doubles as the transaction id for ledger systems.
	HandID      string
	DealerSeat  int
	Results     map[string]PlayerResult
	RatedHands  []RatedHand
	Pots        []pot.Pot
	Transitions []pot.Transition
	Rake        pot.Rake
	Community   []deck.Card
	RevealOrder []string
	Mucking     []string
}

// TotalWinnings sums all winnings, which equals the pots after rake.
func (r *HandResult) TotalWinnings() int64 {
	var total int64
	for _, pr := range r.Results {
		total += pr.WinningsIncludingOwnBets
	}
	return total
}
