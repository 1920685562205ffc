package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/pokertable/internal/deck"
)

// Category is the class of a five card poker hand
type Category int

const (
	NotRanked Category = iota
	HighCard
	Pair
	TwoPairs
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalStraightFlush
)

var categoryNames = [...]string{
	NotRanked:          "NOT_RANKED",
	HighCard:           "HIGH_CARD",
	Pair:               "PAIR",
	TwoPairs:           "TWO_PAIRS",
	ThreeOfAKind:       "THREE_OF_A_KIND",
	Straight:           "STRAIGHT",
	Flush:              "FLUSH",
	FullHouse:          "FULL_HOUSE",
	FourOfAKind:        "FOUR_OF_A_KIND",
	StraightFlush:      "STRAIGHT_FLUSH",
	RoyalStraightFlush: "ROYAL_STRAIGHT_FLUSH",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "UNKNOWN"
	}
	return categoryNames[c]
}

// Ladder orders categories from weakest to strongest. NotRanked is never
// part of a ladder and always loses.
type Ladder []Category

// StandardLadder is the conventional 52-card ordering.
var StandardLadder = Ladder{
	HighCard, Pair, TwoPairs, ThreeOfAKind, Straight, Flush,
	FullHouse, FourOfAKind, StraightFlush, RoyalStraightFlush,
}

// StrippedLadder ranks a flush above a full house, as is usual for short decks
// where flushes become rarer than full houses.
var StrippedLadder = Ladder{
	HighCard, Pair, TwoPairs, ThreeOfAKind, Straight, FullHouse,
	Flush, FourOfAKind, StraightFlush, RoyalStraightFlush,
}

func (l Ladder) level(c Category) int {
	for i, cat := range l {
		if cat == c {
			return i + 1
		}
	}
	return 0
}

// Hand is the evaluated strength of the best five cards out of a card set.
type Hand struct {
	Category Category
	// Ranks holds the tie-break ranks: primary, secondary, then kickers in
	// descending order.
	Ranks []deck.Rank
	// Cards are the five cards making the hand, most significant first.
	Cards []deck.Card

	level int
}

// Ranked reports whether the hand was built from at least five cards
func (h Hand) Ranked() bool {
	return h.Category != NotRanked
}

// HighRank is the most significant rank of the hand, e.g. FIVE for A-2-3-4-5.
func (h Hand) HighRank() deck.Rank {
	if len(h.Ranks) == 0 {
		return 0
	}
	return h.Ranks[0]
}

// Compare returns 1 if h beats o, -1 if o beats h and 0 on a tie.
func (h Hand) Compare(o Hand) int {
	if h.level != o.level {
		if h.level > o.level {
			return 1
		}
		return -1
	}
	for i := 0; i < len(h.Ranks) && i < len(o.Ranks); i++ {
		if h.Ranks[i] != o.Ranks[i] {
			if h.Ranks[i] > o.Ranks[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// String returns e.g. "STRAIGHT [5c 4c 3c 2c As]"
func (h Hand) String() string {
	return fmt.Sprintf("%s [%s]", h.Category, deck.FormatCards(h.Cards))
}

// Describe returns a human readable summary such as "Two pairs, Kings and Fives".
func (h Hand) Describe() string {
	if !h.Ranked() {
		return "Not ranked"
	}
	name := func(i int) string {
		return strings.ToLower(h.Ranks[i].Name())
	}
	switch h.Category {
	case HighCard:
		return fmt.Sprintf("High card %s", name(0))
	case Pair:
		return fmt.Sprintf("Pair of %ss", name(0))
	case TwoPairs:
		return fmt.Sprintf("Two pairs, %ss and %ss", name(0), name(1))
	case ThreeOfAKind:
		return fmt.Sprintf("Three %ss", name(0))
	case Straight:
		return fmt.Sprintf("Straight, %s high", name(0))
	case Flush:
		return fmt.Sprintf("Flush, %s high", name(0))
	case FullHouse:
		return fmt.Sprintf("Full house, %ss over %ss", name(0), name(1))
	case FourOfAKind:
		return fmt.Sprintf("Four %ss", name(0))
	case StraightFlush:
		return fmt.Sprintf("Straight flush, %s high", name(0))
	default:
		return "Royal straight flush"
	}
}
