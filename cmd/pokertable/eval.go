package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/evaluator"
	"github.com/lox/pokertable/internal/game"
)

// EvalCmd evaluates one or more hands, optionally against a shared board
type EvalCmd struct {
	Hands        []string `arg:"" help:"Hands to evaluate, e.g. 'AsKs' 'TdTc'"`
	Board        string   `short:"b" help:"Community cards shared by every hand, e.g. 'Qs Js Ts'"`
	Variant      string   `default:"texas-holdem" help:"Variant whose evaluator is used (texas-holdem, telesina)"`
	Participants int      `default:"2" help:"Players in the hand, sizes the stripped deck"`
}

type evaluation struct {
	Input string
	Hand  evaluator.Hand
}

func (c *EvalCmd) Run() error {
	results, winners, err := evaluate(c.Variant, c.Participants, c.Hands, c.Board)
	if err != nil {
		return err
	}
	fmt.Println(renderEvaluations(results, winners))
	return nil
}

// evaluate rates every hand together with the board and returns the indexes
// of the winning hands
func evaluate(variantName string, participants int, hands []string, board string) ([]evaluation, []int, error) {
	variant, err := game.ParseVariant(variantName)
	if err != nil {
		return nil, nil, err
	}
	eval := variant.Evaluator(participants)

	community, err := deck.ParseCards(board)
	if err != nil {
		return nil, nil, fmt.Errorf("board: %w", err)
	}
	seen := map[deck.Card]bool{}
	for _, c := range community {
		seen[c.Kind()] = true
	}

	results := make([]evaluation, 0, len(hands))
	rated := make([]evaluator.Hand, 0, len(hands))
	for i, h := range hands {
		cards, err := deck.ParseCards(h)
		if err != nil {
			return nil, nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		for _, c := range cards {
			if seen[c.Kind()] {
				return nil, nil, fmt.Errorf("hand %d: card %s used twice", i+1, c)
			}
			seen[c.Kind()] = true
		}
		hand := eval.Evaluate(append(cards, community...))
		results = append(results, evaluation{Input: deck.FormatCards(cards), Hand: hand})
		rated = append(rated, hand)
	}
	return results, evaluator.Best(rated), nil
}

func renderEvaluations(results []evaluation, winners []int) string {
	lines := []string{headerStyle.Render("Hands")}
	for i, r := range results {
		line := fmt.Sprintf("%-20s %-16s %s", r.Input, r.Hand.Category, r.Hand.Describe())
		if len(results) > 1 && slices.Contains(winners, i) {
			line = winStyle.Render(line + "  ← best")
		}
		lines = append(lines, line)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n")))
}
