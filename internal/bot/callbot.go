package bot

import "github.com/lox/pokertable/internal/game"

// CallBot posts forced bets and checks or calls down every street.
type CallBot struct{}

func (CallBot) Name() string { return "call" }

func (CallBot) Decide(req game.ActionRequest) game.PlayerAction {
	if a, ok := forcedBet(req); ok {
		return a
	}
	return first(req, game.Check, game.Call, game.Fold)
}
