package phh

import (
	"fmt"
	"strings"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
)

// Player returns the player token for a zero based position, e.g. "p1"
func Player(pos int) string {
	return fmt.Sprintf("p%d", pos+1)
}

// Cards joins cards without separators, e.g. "AsKs". Hidden cards are
// written as "??".
func Cards(cards []deck.Card, hidden bool) string {
	var b strings.Builder
	for _, c := range cards {
		if hidden {
			b.WriteString("??")
			continue
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// DealHole is the dealer action giving pocket cards to a player
func DealHole(pos int, cards []deck.Card, hidden bool) string {
	return fmt.Sprintf("d dh %s %s", Player(pos), Cards(cards, hidden))
}

// DealBoard is the dealer action for community cards
func DealBoard(cards []deck.Card) string {
	return "d db " + Cards(cards, false)
}

// ShowCards is a player showing their pocket cards at showdown
func ShowCards(pos int, cards []deck.Card) string {
	return fmt.Sprintf("%s sm %s", Player(pos), Cards(cards, false))
}

// FormatAction converts a performed action to a PHH action. Forced bets are
// recorded in the antes and blinds arrays and yield false. Declined forced
// bets have no PHH action and are written as comments.
func FormatAction(pos int, a game.PerformedAction) (string, bool) {
	p := Player(pos)
	switch a.Type {
	case game.Fold:
		return p + " f", true
	case game.Check, game.Call:
		return p + " cc", true
	case game.Bet, game.Raise:
		return fmt.Sprintf("%s cbr %d", p, a.Amount), true
	case game.DeclineEntryBet, game.DeclineAnte:
		return fmt.Sprintf("# %s %s", p, strings.ToLower(a.Type.String())), true
	}
	return "", false
}
