package game

import (
	"fmt"

	"github.com/lox/pokertable/internal/deck"
)

// SitOutReason explains why a player is sitting out
type SitOutReason int

const (
	NotSittingOut SitOutReason = iota
	SitOutRequested
	MissedBlind
	MissedAnte
	NoMoney
	TimedOut
)

func (r SitOutReason) String() string {
	return [...]string{"NONE", "REQUESTED", "MISSED_BLIND", "MISSED_ANTE", "NO_MONEY", "TIMED_OUT"}[r]
}

// PlayerStatus is reported to the host whenever a player's status changes
type PlayerStatus int

const (
	StatusSittingIn PlayerStatus = iota
	StatusSittingOut
	StatusAllIn
	StatusFolded
)

func (s PlayerStatus) String() string {
	return [...]string{"SITIN", "SITOUT", "ALLIN", "FOLDED"}[s]
}

// Player is a seated player. The hand fields are reset when a hand starts.
type Player struct {
	ID      string
	Seat    int
	Balance int64
	// PendingBalance holds buy-ins that arrived during a hand.
	PendingBalance int64
	BuyInRequested bool
	SitOutReason   SitOutReason
	AutoPostBlinds bool
	Leaving        bool

	StartingBalance int64
	BetStack        int64
	Folded          bool
	AllIn           bool
	HasActed        bool
	Pocket          []deck.Card
	Exposed         []bool
	ShowingCards    bool
	Mucked          bool
}

// SittingOut reports whether the player takes no part in new hands.
func (p *Player) SittingOut() bool {
	return p.SitOutReason != NotSittingOut
}

// ResetForHand clears all per-hand state.
func (p *Player) ResetForHand() {
	p.StartingBalance = p.Balance
	p.BetStack = 0
	p.Folded = false
	p.AllIn = false
	p.HasActed = false
	p.Pocket = nil
	p.Exposed = nil
	p.ShowingCards = false
	p.Mucked = false
}

// Commit moves chips from the balance to the bet stack. Committing more than
// the balance is a contract violation.
func (p *Player) Commit(amount int64) {
	if amount < 0 || amount > p.Balance {
		panic(fmt.Sprintf("player %s: commit %d with balance %d", p.ID, amount, p.Balance))
	}
	p.Balance -= amount
	p.BetStack += amount
	if p.Balance == 0 && amount > 0 {
		p.AllIn = true
	}
}

// ReturnChips moves uncalled or refunded chips back to the balance.
func (p *Player) ReturnChips(amount int64) {
	p.BetStack -= amount
	p.Balance += amount
	if p.Balance > 0 {
		p.AllIn = false
	}
}

// Active reports whether the player can still take actions this hand.
func (p *Player) Active() bool {
	return !p.Folded && !p.AllIn
}

// DealPocket gives the player a card. Exposed cards are visible to everyone.
func (p *Player) DealPocket(c deck.Card, exposed bool) {
	p.Pocket = append(p.Pocket, c)
	p.Exposed = append(p.Exposed, exposed)
}

// HiddenCards returns the pocket cards not exposed to other players.
func (p *Player) HiddenCards() []deck.Card {
	var out []deck.Card
	for i, c := range p.Pocket {
		if !p.Exposed[i] {
			out = append(out, c)
		}
	}
	return out
}
