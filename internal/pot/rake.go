package pot

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Rake is the house cut taken from the pots of one hand.
type Rake struct {
	Total int64
	// TotalBeforeRake is the sum of pot sizes the rake was computed from.
	TotalBeforeRake int64
	PerPot          map[int]int64
	PerPlayer       map[string]int64
}

func newRake(pots []Pot) Rake {
	r := Rake{PerPot: map[int]int64{}, PerPlayer: map[string]int64{}}
	for _, p := range pots {
		r.TotalBeforeRake += p.Size
	}
	return r
}

// RakeCalculator computes rake for the pots of a hand.
type RakeCalculator interface {
	Calculate(pots []Pot) Rake
}

// NoRake never takes rake.
type NoRake struct{}

func (NoRake) Calculate(pots []Pot) Rake { return newRake(pots) }

// LinearRake takes Fraction of every pot, rounded toward zero. When Cap is
// positive the running rake total over the pots, in id order, stops at Cap:
// the pot that crosses the cap is raked only up to it and later pots are not
// raked at all.
type LinearRake struct {
	Fraction decimal.Decimal
	Cap      int64
}

// NewLinearRake parses the fraction, e.g. "0.05".
func NewLinearRake(fraction string, limit int64) (LinearRake, error) {
	f, err := decimal.NewFromString(fraction)
	if err != nil {
		return LinearRake{}, err
	}
	if f.IsNegative() || f.GreaterThan(decimal.NewFromInt(1)) {
		return LinearRake{}, fmt.Errorf("rake fraction %s outside [0, 1]", fraction)
	}
	if limit < 0 {
		return LinearRake{}, fmt.Errorf("rake cap %d is negative", limit)
	}
	return LinearRake{Fraction: f, Cap: limit}, nil
}

func (l LinearRake) Calculate(pots []Pot) Rake {
	r := newRake(pots)
	sorted := make([]Pot, len(pots))
	copy(sorted, pots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, p := range sorted {
		amount := l.Fraction.Mul(decimal.NewFromInt(p.Size)).Truncate(0).IntPart()
		if l.Cap > 0 && r.Total+amount > l.Cap {
			amount = l.Cap - r.Total
		}
		if amount <= 0 {
			continue
		}
		r.PerPot[p.ID] = amount
		r.Total += amount
		attribute(r.PerPlayer, p, amount)
	}
	return r
}

// attribute splits a pot's rake between its contributors in proportion to
// their contribution. Rounding leftovers go to the largest contributors.
func attribute(perPlayer map[string]int64, p Pot, amount int64) {
	if p.Size == 0 {
		return
	}
	ids := p.Contributors()
	sort.SliceStable(ids, func(i, j int) bool {
		return p.Contributions[ids[i]] > p.Contributions[ids[j]]
	})
	total := decimal.NewFromInt(p.Size)
	var assigned int64
	for _, id := range ids {
		share := decimal.NewFromInt(amount).
			Mul(decimal.NewFromInt(p.Contributions[id])).
			Div(total).
			Truncate(0).
			IntPart()
		perPlayer[id] += share
		assigned += share
	}
	for i := 0; assigned < amount; i = (i + 1) % len(ids) {
		perPlayer[ids[i]]++
		assigned++
	}
}
