// Package pot implements the pot ledger: it moves betting stacks into an
// ordered set of main and side pots, returns uncalled chips, and computes
// rake.
package pot

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Type distinguishes the main pot from side pots
type Type int

const (
	Main Type = iota
	Side
)

func (t Type) String() string {
	if t == Main {
		return "MAIN"
	}
	return "SIDE"
}

// Pot is a pool of chips won by the contributors who are still in the hand.
type Pot struct {
	ID   int
	Type Type
	// Size is the number of chips in the pot, after rake once rake is applied.
	Size int64
	// Contributions maps player id to the chips they put in this pot.
	Contributions map[string]int64

	capped bool
}

// Contributors returns the ids of everyone who put chips into the pot, sorted.
func (p Pot) Contributors() []string {
	ids := make([]string, 0, len(p.Contributions))
	for id := range p.Contributions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Eligible returns the contributors for which inHand reports true.
func (p Pot) Eligible(inHand func(playerID string) bool) []string {
	var out []string
	for _, id := range p.Contributors() {
		if inHand(id) {
			out = append(out, id)
		}
	}
	return out
}

// Open reports whether later betting rounds may still add chips to the pot.
func (p Pot) Open() bool {
	return !p.capped
}

func (p Pot) clone() Pot {
	c := p
	c.Contributions = make(map[string]int64, len(p.Contributions))
	for k, v := range p.Contributions {
		c.Contributions[k] = v
	}
	return c
}

// Bet is one player's betting stack at the end of a betting round.
type Bet struct {
	PlayerID string
	Amount   int64
	AllIn    bool
}

// Transition records chips moving from one player into one pot.
type Transition struct {
	HandID   string
	PlayerID string
	PotID    int
	Amount   int64
}

// Settlement is the outcome of one Collect pass.
type Settlement struct {
	Transitions []Transition
	// Returned holds uncalled chips handed back to the bettor.
	Returned map[string]int64
}

// Holder owns all pots of a single hand.
type Holder struct {
	handID      string
	rake        RakeCalculator
	pots        []*Pot
	transitions []Transition
	committed   int64
	applied     *Rake
}

// NewHolder creates an empty pot ledger for the hand. The hand id is stamped
// on every transition so downstream ledgers can correlate them.
func NewHolder(handID string, rake RakeCalculator) *Holder {
	if rake == nil {
		rake = NoRake{}
	}
	return &Holder{handID: handID, rake: rake}
}

// Collect moves the betting stacks of one round into the pots. Pot tiers are
// cut at the all-in amounts; chips of folded or short players fall into the
// lowest pots they reach. Any excess of the single highest bet over the
// second highest is returned instead of being pot-ed.
func (h *Holder) Collect(bets []Bet) Settlement {
	if h.applied != nil {
		panic("pot: collect after rake was applied")
	}
	s := Settlement{Returned: map[string]int64{}}

	active := make([]Bet, 0, len(bets))
	for _, b := range bets {
		if b.Amount < 0 {
			panic(fmt.Sprintf("pot: negative bet %d for %s", b.Amount, b.PlayerID))
		}
		if b.Amount > 0 {
			active = append(active, b)
		}
	}
	if len(active) == 0 {
		return s
	}

	top, second := -1, int64(0)
	for i, b := range active {
		switch {
		case top < 0 || b.Amount > active[top].Amount:
			if top >= 0 {
				second = active[top].Amount
			}
			top = i
		case b.Amount > second:
			second = b.Amount
		}
	}
	if excess := active[top].Amount - second; excess > 0 {
		s.Returned[active[top].PlayerID] = excess
		active[top].Amount = second
	}

	var levels []int64
	for _, b := range active {
		if b.AllIn && b.Amount > 0 && !slices.Contains(levels, b.Amount) {
			levels = append(levels, b.Amount)
		}
	}
	slices.Sort(levels)
	levels = append(levels, math.MaxInt64)

	var prev int64
	for _, level := range levels {
		pot := h.openPot()
		for _, b := range active {
			c := min(b.Amount, level) - prev
			if c <= 0 {
				continue
			}
			if pot == nil {
				pot = h.newPot()
			}
			pot.Size += c
			pot.Contributions[b.PlayerID] += c
			h.committed += c
			t := Transition{HandID: h.handID, PlayerID: b.PlayerID, PotID: pot.ID, Amount: c}
			s.Transitions = append(s.Transitions, t)
		}
		if level != math.MaxInt64 {
			if pot != nil {
				pot.capped = true
			}
			prev = level
		}
	}
	h.transitions = append(h.transitions, s.Transitions...)
	return s
}

func (h *Holder) openPot() *Pot {
	if n := len(h.pots); n > 0 && !h.pots[n-1].capped {
		return h.pots[n-1]
	}
	return nil
}

func (h *Holder) newPot() *Pot {
	p := &Pot{ID: len(h.pots), Type: Side, Contributions: map[string]int64{}}
	if p.ID == 0 {
		p.Type = Main
	}
	h.pots = append(h.pots, p)
	return p
}

// Pots returns a copy of the pots in id order.
func (h *Holder) Pots() []Pot {
	out := make([]Pot, len(h.pots))
	for i, p := range h.pots {
		out[i] = p.clone()
	}
	return out
}

// Total is the sum of all pot sizes.
func (h *Holder) Total() int64 {
	var total int64
	for _, p := range h.pots {
		total += p.Size
	}
	return total
}

// Committed is the number of chips moved into pots so far, rake included.
func (h *Holder) Committed() int64 {
	return h.committed
}

// Contribution is the number of chips the player has put in all pots.
func (h *Holder) Contribution(playerID string) int64 {
	var total int64
	for _, p := range h.pots {
		total += p.Contributions[playerID]
	}
	return total
}

// Transitions returns every transition recorded in this hand.
func (h *Holder) Transitions() []Transition {
	return slices.Clone(h.transitions)
}

// HandID is the transaction id stamped on transitions.
func (h *Holder) HandID() string {
	return h.handID
}

// ApplyRake computes rake over all pots and deducts it from the pot sizes.
// It may be called once per hand; later calls return the first result.
// When rakeable is false no rake is taken.
func (h *Holder) ApplyRake(rakeable bool) Rake {
	if h.applied != nil {
		return *h.applied
	}
	var r Rake
	if rakeable {
		r = h.rake.Calculate(h.Pots())
	} else {
		r = newRake(h.Pots())
	}
	for _, p := range h.pots {
		p.Size -= r.PerPot[p.ID]
	}
	h.applied = &r
	return r
}

// Split divides amount between winners. The remainder goes one chip at a time
// to the winners in the order given, so callers pass winners ordered from the
// first seat left of the dealer.
func Split(amount int64, winners []string) map[string]int64 {
	out := make(map[string]int64, len(winners))
	if len(winners) == 0 {
		return out
	}
	share := amount / int64(len(winners))
	rem := amount % int64(len(winners))
	for i, w := range winners {
		out[w] += share
		if int64(i) < rem {
			out[w]++
		}
	}
	return out
}
