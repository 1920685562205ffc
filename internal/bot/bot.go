// Package bot provides simple automated players that answer action requests.
// They drive simulated tables and exercise every legal action.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/lox/pokertable/internal/game"
)

// Bot chooses an answer to an action request. The returned action is always
// one of the request's options.
type Bot interface {
	Name() string
	Decide(req game.ActionRequest) game.PlayerAction
}

// Kinds lists the bot names accepted by New
var Kinds = []string{"random", "call", "fold", "maniac"}

// New creates a bot by name. "mixed" picks one of Kinds at random.
func New(kind string, rng *rand.Rand) (Bot, error) {
	if kind == "mixed" {
		kind = Kinds[rng.IntN(len(Kinds))]
	}
	switch kind {
	case "random":
		return NewRandBot(rng), nil
	case "call":
		return CallBot{}, nil
	case "fold":
		return FoldBot{}, nil
	case "maniac":
		return NewManiacBot(rng), nil
	}
	return nil, fmt.Errorf("unknown bot %q, expected one of %s or mixed", kind, strings.Join(Kinds, ", "))
}

// forcedBets are posted by every bot unless it deliberately declines
var forcedBets = []game.ActionType{game.SmallBlind, game.BigBlind, game.Ante}

// forcedBet returns the forced bet offered by req, if any.
func forcedBet(req game.ActionRequest) (game.PlayerAction, bool) {
	for _, o := range req.Options {
		if slices.Contains(forcedBets, o.Type) {
			return game.PlayerAction{PlayerID: req.PlayerID, Type: o.Type}, true
		}
	}
	return game.PlayerAction{}, false
}

// first returns the first offered action of the preferred types, falling
// back to the first option of the request.
func first(req game.ActionRequest, preferred ...game.ActionType) game.PlayerAction {
	for _, t := range preferred {
		if o, ok := req.Option(t); ok {
			return action(req, o, o.Min)
		}
	}
	return action(req, req.Options[0], req.Options[0].Min)
}

func action(req game.ActionRequest, o game.PossibleAction, amount int64) game.PlayerAction {
	a := game.PlayerAction{PlayerID: req.PlayerID, Type: o.Type}
	if o.Type == game.Bet || o.Type == game.Raise {
		a.Amount = amount
	}
	return a
}

// between returns a uniform amount in [lo, hi]
func between(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int64N(hi-lo+1)
}
