package bot

import (
	rand "math/rand/v2"

	"github.com/lox/pokertable/internal/game"
)

// RandBot makes uniform random legal actions. It occasionally declines a
// forced bet so tables see players sitting out.
type RandBot struct {
	rng *rand.Rand
	// DeclineRate is the chance of declining a blind or ante.
	DeclineRate float64
}

// NewRandBot creates a new RandBot
func NewRandBot(rng *rand.Rand) *RandBot {
	return &RandBot{rng: rng, DeclineRate: 0.02}
}

func (r *RandBot) Name() string { return "random" }

func (r *RandBot) Decide(req game.ActionRequest) game.PlayerAction {
	if a, ok := forcedBet(req); ok && r.rng.Float64() >= r.DeclineRate {
		return a
	}
	o := req.Options[r.rng.IntN(len(req.Options))]
	return action(req, o, between(r.rng, o.Min, o.Max))
}
