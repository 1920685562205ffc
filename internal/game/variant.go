package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/evaluator"
)

// Variant is a poker game type. It owns the deck, the evaluator and the order
// of rounds; the orchestration in Hand is shared.
type Variant interface {
	Name() string
	NewDeck(participants int, rng *rand.Rand) *deck.Deck
	Evaluator(participants int) evaluator.Evaluator
	// EntryLevel is the forced bet a player must be able to afford.
	EntryLevel(s Settings) int64
	FirstRound() Round
	// Next returns the round following finished, or nil when the hand goes to
	// showdown. Round kinds the variant does not play yield ErrUnsupportedRound.
	Next(h *Hand, finished Round) (Round, error)
}

// CanAfford reports whether a balance covers the table's entry level.
func CanAfford(v Variant, s Settings, balance int64) bool {
	level := s.EntryBet
	if level == 0 {
		level = v.EntryLevel(s)
	}
	return balance >= level
}

// ParseVariant resolves a variant by name.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "", TexasHoldem{}.Name():
		return TexasHoldem{}, nil
	case Telesina{}.Name():
		return Telesina{}, nil
	}
	return nil, fmt.Errorf("unknown variant %q", name)
}

func unsupported(v Variant, r Round) error {
	return fmt.Errorf("%w: %s in %s", ErrUnsupportedRound, r.Kind(), v.Name())
}

// TexasHoldem plays blinds, two hidden pocket cards and four betting rounds
// around the flop, turn and river.
type TexasHoldem struct{}

func (TexasHoldem) Name() string { return "texas-holdem" }

func (TexasHoldem) NewDeck(_ int, rng *rand.Rand) *deck.Deck {
	return deck.New(rng)
}

func (TexasHoldem) Evaluator(int) evaluator.Evaluator {
	return evaluator.Standard{}
}

func (TexasHoldem) EntryLevel(s Settings) int64 {
	return s.BigBlind
}

func (TexasHoldem) FirstRound() Round {
	return newBlindsRound()
}

func (t TexasHoldem) Next(h *Hand, finished Round) (Round, error) {
	switch finished.Kind() {
	case KindBlinds:
		h.dealPocketCards(2, 0)
		return newBettingRound(), nil
	case KindBetting:
		if h.roundID >= 3 || len(h.nonFolded()) <= 1 {
			return nil, nil
		}
		if h.roundID == 0 {
			return newCommunityRound(3), nil
		}
		return newCommunityRound(1), nil
	case KindDealCommunityCards:
		h.roundID++
		return newBettingRound(), nil
	}
	return nil, unsupported(t, finished)
}

// Telesina is a stud game on a stripped deck: an ante, one hidden and one
// exposed pocket card, two more exposed cards, then a single community card.
type Telesina struct{}

// telesinaBettingRounds is the number of betting rounds before showdown.
const telesinaBettingRounds = 4

func (Telesina) Name() string { return "telesina" }

func (Telesina) NewDeck(participants int, rng *rand.Rand) *deck.Deck {
	return deck.NewStripped(participants, rng)
}

func (Telesina) Evaluator(participants int) evaluator.Evaluator {
	return evaluator.NewStripped(participants)
}

func (Telesina) EntryLevel(s Settings) int64 {
	return s.Ante
}

func (Telesina) FirstRound() Round {
	return newAnteRound()
}

func (t Telesina) Next(h *Hand, finished Round) (Round, error) {
	switch finished.Kind() {
	case KindAnte:
		return newPocketRound(KindDealInitialPocketCards, 1, 1), nil
	case KindDealInitialPocketCards, KindDealExposedPocketCards, KindDealCommunityCards:
		h.roundID++
		return newBettingRound(), nil
	case KindBetting:
		if h.bettingRounds >= telesinaBettingRounds || len(h.nonFolded()) <= 1 {
			return nil, nil
		}
		if h.bettingRounds == telesinaBettingRounds-1 {
			return newCommunityRound(1), nil
		}
		return newPocketRound(KindDealExposedPocketCards, 0, 1), nil
	}
	return nil, unsupported(t, finished)
}
