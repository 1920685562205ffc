package evaluator

import (
	"slices"

	"github.com/lox/pokertable/internal/deck"
)

// HandSize is the number of cards that make a poker hand
const HandSize = 5

// Evaluator ranks a set of cards. Implementations are stateless and safe for
// concurrent use.
type Evaluator interface {
	Evaluate(cards []deck.Card) Hand
}

// Standard evaluates hands dealt from a full 52-card deck
type Standard struct{}

// Evaluate returns the best five card hand out of cards
func (Standard) Evaluate(cards []deck.Card) Hand {
	return best(cards, deck.Two, StandardLadder)
}

// Stripped evaluates hands from a deck whose ranks start at Lowest. The
// wheel straight is the Ace followed by the four lowest ranks of the deck.
type Stripped struct {
	Lowest deck.Rank
}

// NewStripped creates an evaluator for a stripped deck sized for participants
func NewStripped(participants int) Stripped {
	return Stripped{Lowest: deck.LowestRank(participants)}
}

// Evaluate returns the best five card hand out of cards
func (s Stripped) Evaluate(cards []deck.Card) Hand {
	lowest := s.Lowest
	if lowest == 0 {
		lowest = deck.Two
	}
	return best(cards, lowest, StrippedLadder)
}

func best(cards []deck.Card, lowest deck.Rank, ladder Ladder) Hand {
	if len(cards) < HandSize {
		return Hand{Category: NotRanked, Cards: slices.Clone(cards)}
	}
	var top Hand
	found := false
	Combinations(cards, HandSize, func(combo []deck.Card) {
		h := scoreFive(combo, lowest, ladder)
		if !found || h.Compare(top) > 0 {
			top = h
			found = true
		}
	})
	return top
}

// Combinations calls fn with every k sized subset of cards, preserving the
// input order inside each subset. The slice passed to fn is reused.
func Combinations(cards []deck.Card, k int, fn func([]deck.Card)) {
	if k > len(cards) || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	combo := make([]deck.Card, k)
	for {
		for i, j := range idx {
			combo[i] = cards[j]
		}
		fn(combo)

		i := k - 1
		for i >= 0 && idx[i] == len(cards)-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

type rankGroup struct {
	rank  deck.Rank
	cards []deck.Card
}

func scoreFive(cards []deck.Card, lowest deck.Rank, ladder Ladder) Hand {
	sorted := slices.Clone(cards)
	slices.SortStableFunc(sorted, func(a, b deck.Card) int { return int(b.Rank) - int(a.Rank) })

	// groups ordered by size, then rank, both descending
	var groups []rankGroup
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].cards = append(groups[n-1].cards, c)
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, cards: []deck.Card{c}})
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		if len(a.cards) != len(b.cards) {
			return len(b.cards) - len(a.cards)
		}
		return int(b.rank) - int(a.rank)
	})

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}
	straightHigh, straightCards := straight(sorted, lowest)

	var cat Category
	switch {
	case straightHigh != 0 && flush && straightHigh == deck.Ace:
		cat = RoyalStraightFlush
	case straightHigh != 0 && flush:
		cat = StraightFlush
	case len(groups[0].cards) == 4:
		cat = FourOfAKind
	case len(groups[0].cards) == 3 && len(groups[1].cards) == 2:
		cat = FullHouse
	case flush:
		cat = Flush
	case straightHigh != 0:
		cat = Straight
	case len(groups[0].cards) == 3:
		cat = ThreeOfAKind
	case len(groups[0].cards) == 2 && len(groups[1].cards) == 2:
		cat = TwoPairs
	case len(groups[0].cards) == 2:
		cat = Pair
	default:
		cat = HighCard
	}

	h := Hand{Category: cat, level: ladder.level(cat)}
	if straightHigh != 0 && (cat == Straight || cat == StraightFlush || cat == RoyalStraightFlush) {
		h.Ranks = []deck.Rank{straightHigh}
		h.Cards = straightCards
		return h
	}
	for _, g := range groups {
		h.Ranks = append(h.Ranks, g.rank)
		h.Cards = append(h.Cards, g.cards...)
	}
	return h
}

// straight reports the high rank of a straight formed by five rank-sorted
// cards, trying ace-high first and then the ace playing below lowest.
func straight(sorted []deck.Card, lowest deck.Rank) (deck.Rank, []deck.Card) {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank != sorted[i-1].Rank-1 {
			break
		}
		if i == len(sorted)-1 {
			return sorted[0].Rank, sorted
		}
	}
	if sorted[0].Rank != deck.Ace {
		return 0, nil
	}
	rest := sorted[1:]
	for i, c := range rest {
		if c.Rank != lowest+deck.Rank(len(rest)-1-i) {
			return 0, nil
		}
	}
	ordered := append(slices.Clone(rest), sorted[0])
	return rest[0].Rank, ordered
}
