package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in deck generation order
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

// String returns the single letter form used in card strings ("s", "h", "d", "c")
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Symbol returns the unicode suit symbol
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the string representation of a rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Name returns the upper case rank name, e.g. "FIVE"
func (r Rank) Name() string {
	names := [...]string{"TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT",
		"NINE", "TEN", "JACK", "QUEEN", "KING", "ACE"}
	if r < Two || r > Ace {
		return "UNKNOWN"
	}
	return names[r-Two]
}

// Card is an immutable playing card. A zero ID marks a card "kind" that has
// not been dealt from a deck; dealt cards carry IDs starting at 1.
type Card struct {
	ID   int
	Rank Rank
	Suit Suit
}

// NewCard creates a card kind without an id
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the short form of a card, e.g. "As"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Equal reports whether both cards share id, rank and suit.
func (c Card) Equal(o Card) bool {
	return c.ID == o.ID && c.Rank == o.Rank && c.Suit == o.Suit
}

// Kind strips the id from the card
func (c Card) Kind() Card {
	return Card{Rank: c.Rank, Suit: c.Suit}
}

// SameKind reports whether two cards have the same rank and suit regardless of id
func (c Card) SameKind(o Card) bool {
	return c.Rank == o.Rank && c.Suit == o.Suit
}

// ParseRank parses a rank character. "10" is accepted for Ten.
func ParseRank(s string) (Rank, error) {
	if s == "10" {
		return Ten, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	i := strings.IndexByte(rankChars, strings.ToUpper(s)[0])
	if i < 0 {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	return Two + Rank(i), nil
}

// ParseSuit parses a suit character, case insensitive
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "s":
		return Spades, nil
	case "h":
		return Hearts, nil
	case "d":
		return Diamonds, nil
	case "c":
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

// ParseCard parses a single card such as "As", "TD" or "10h"
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}
	suit, err := ParseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses a list of cards. Cards may be separated by whitespace
// ("2C 3C 4C") or concatenated ("AsKsQs").
func ParseCards(s string) ([]Card, error) {
	cards := []Card{}
	for _, field := range strings.Fields(s) {
		if len(field) <= 3 {
			if card, err := ParseCard(field); err == nil {
				cards = append(cards, card)
				continue
			}
		}
		if len(field)%2 != 0 {
			return nil, fmt.Errorf("invalid card string %q", field)
		}
		for i := 0; i < len(field); i += 2 {
			card, err := ParseCard(field[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with single spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
