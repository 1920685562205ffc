package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// StandardSize is the number of cards in a full deck
const StandardSize = 52

// Deck is an ordered sequence of cards for a single hand. Cards are shuffled
// once on construction and receive their ids in dealing order.
type Deck struct {
	cards  []Card
	all    []Card
	lowest Rank
}

// New creates a shuffled standard 52-card deck
func New(rng *rand.Rand) *Deck {
	return newShuffled(Kinds(Two), Two, rng)
}

// NewStripped creates a shuffled deck without the ranks below LowestRank(participants)
func NewStripped(participants int, rng *rand.Rand) *Deck {
	lowest := LowestRank(participants)
	return newShuffled(Kinds(lowest), lowest, rng)
}

// NewRigged creates an unshuffled deck dealing the given cards in order.
// Intended for tests and hand replays.
func NewRigged(cards []Card) *Deck {
	lowest := Ace
	for _, c := range cards {
		if c.Rank < lowest {
			lowest = c.Rank
		}
	}
	return build(cards, lowest)
}

// NewRiggedFromString parses cards and builds a rigged deck for a stripped
// game with the given participant count. Cards below the stripped deck's
// lowest rank are rejected.
func NewRiggedFromString(participants int, s string) (*Deck, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return nil, err
	}
	lowest := LowestRank(participants)
	for _, c := range cards {
		if c.Rank < lowest {
			return nil, fmt.Errorf("card %s is not part of a %d player deck (lowest rank %s)", c, participants, lowest)
		}
	}
	return build(cards, lowest), nil
}

// LowestRank returns the lowest rank kept in a stripped deck for the given
// number of participants: the rank at index max(0, 11-participants-2) from Two.
func LowestRank(participants int) Rank {
	idx := max(0, 11-participants-2)
	return Two + Rank(idx)
}

// Kinds lists one id-less card per rank/suit combination from lowest to Ace.
func Kinds(lowest Rank) []Card {
	cards := make([]Card, 0, int(Ace-lowest+1)*len(Suits))
	for _, suit := range Suits {
		for rank := lowest; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

func newShuffled(kinds []Card, lowest Rank, rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng must not be nil")
	}
	rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})
	return build(kinds, lowest)
}

func build(kinds []Card, lowest Rank) *Deck {
	cards := make([]Card, len(kinds))
	for i, c := range kinds {
		cards[i] = Card{ID: i + 1, Rank: c.Rank, Suit: c.Suit}
	}
	all := make([]Card, len(cards))
	copy(all, cards)
	return &Deck{cards: cards, all: all, lowest: lowest}
}

// Deal removes and returns the top card. Dealing from an empty deck means the
// round sequencing is broken and panics.
func (d *Deck) Deal() Card {
	if len(d.cards) == 0 {
		panic("deck: deal from empty deck")
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card
}

// DealN deals n cards from the deck
func (d *Deck) DealN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Deal()
	}
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// AllCards returns every card the deck was built with, in original order
func (d *Deck) AllCards() []Card {
	out := make([]Card, len(d.all))
	copy(out, d.all)
	return out
}

// Size is the total number of cards the deck was built with
func (d *Deck) Size() int {
	return len(d.all)
}

// LowestRank is the lowest rank present in the deck
func (d *Deck) LowestRank() Rank {
	return d.lowest
}
