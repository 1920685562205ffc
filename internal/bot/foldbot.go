package bot

import "github.com/lox/pokertable/internal/game"

// FoldBot posts forced bets, then checks when it can and folds otherwise
type FoldBot struct{}

func (FoldBot) Name() string { return "fold" }

func (FoldBot) Decide(req game.ActionRequest) game.PlayerAction {
	if a, ok := forcedBet(req); ok {
		return a
	}
	return first(req, game.Check, game.Fold)
}
