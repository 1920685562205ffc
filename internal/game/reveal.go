package game

import "slices"

// clockwise returns players (sorted by seat) starting with the first seat
// after seat and wrapping around.
func clockwise(players []*Player, seat int) []*Player {
	idx := slices.IndexFunc(players, func(p *Player) bool { return p.Seat > seat })
	if idx < 0 {
		idx = 0
	}
	out := make([]*Player, 0, len(players))
	out = append(out, players[idx:]...)
	return append(out, players[:idx]...)
}

// RevealOrder returns the order in which the remaining players show their
// cards: the last aggressor first, then clockwise from the dealer.
func RevealOrder(players []*Player, dealerSeat int, lastAggressor string) []string {
	sorted := slices.Clone(players)
	slices.SortFunc(sorted, func(a, b *Player) int { return a.Seat - b.Seat })

	var order []string
	for _, p := range sorted {
		if p.ID == lastAggressor && !p.Folded {
			order = append(order, p.ID)
		}
	}
	for _, p := range clockwise(sorted, dealerSeat) {
		if !p.Folded && p.ID != lastAggressor {
			order = append(order, p.ID)
		}
	}
	return order
}
