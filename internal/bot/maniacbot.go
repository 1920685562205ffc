package bot

import (
	rand "math/rand/v2"

	"github.com/lox/pokertable/internal/game"
)

// ManiacBot bets and raises very frequently, often for its whole stack
type ManiacBot struct {
	rng *rand.Rand
}

// NewManiacBot creates a new ManiacBot
func NewManiacBot(rng *rand.Rand) *ManiacBot {
	return &ManiacBot{rng: rng}
}

func (m *ManiacBot) Name() string { return "maniac" }

func (m *ManiacBot) Decide(req game.ActionRequest) game.PlayerAction {
	if a, ok := forcedBet(req); ok {
		return a
	}

	aggressive, ok := req.Option(game.Raise)
	if !ok {
		aggressive, ok = req.Option(game.Bet)
	}
	roll := m.rng.Float64()
	if ok && roll < 0.7 {
		amount := aggressive.Min + (aggressive.Max-aggressive.Min)*3/4
		if roll < 0.25 {
			amount = aggressive.Max
		}
		return action(req, aggressive, amount)
	}

	if roll < 0.9 || !req.Allows(game.Fold) {
		return first(req, game.Check, game.Call, game.Fold)
	}
	return first(req, game.Check, game.Fold)
}
