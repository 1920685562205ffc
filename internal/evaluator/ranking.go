package evaluator

// Best returns the indexes of the strongest hands. Several indexes mean a tie.
func Best(hands []Hand) []int {
	var winners []int
	for i, h := range hands {
		if len(winners) == 0 {
			winners = []int{i}
			continue
		}
		switch h.Compare(hands[winners[0]]) {
		case 1:
			winners = []int{i}
		case 0:
			winners = append(winners, i)
		}
	}
	return winners
}
