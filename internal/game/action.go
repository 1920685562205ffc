package game

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIllegalAction is returned when an action is not in the legal action set.
	ErrIllegalAction = errors.New("illegal action")
	// ErrNotYourTurn is returned when a player acts without an outstanding request.
	ErrNotYourTurn = errors.New("not player's turn")
	// ErrNoActiveHand is returned for actions sent while no hand is being played.
	ErrNoActiveHand = errors.New("no active hand")
	// ErrUnsupportedRound is returned when a variant is asked to handle a round
	// kind it does not play.
	ErrUnsupportedRound = errors.New("unsupported round")
)

// ActionType is a poker action a player can perform
type ActionType int

const (
	SmallBlind ActionType = iota
	BigBlind
	DeclineEntryBet
	Ante
	DeclineAnte
	Check
	Call
	Bet
	Raise
	Fold
)

func (a ActionType) String() string {
	return [...]string{
		"SMALL_BLIND", "BIG_BLIND", "DECLINE_ENTRY_BET", "ANTE", "DECLINE_ANTE",
		"CHECK", "CALL", "BET", "RAISE", "FOLD",
	}[a]
}

// ParseActionType parses the upper case action name
func ParseActionType(s string) (ActionType, error) {
	for a := SmallBlind; a <= Fold; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action type %q", s)
}

// PossibleAction is one legal option of an action request. For bets and
// raises Min and Max bound the player's total bet for the round.
type PossibleAction struct {
	Type ActionType
	Min  int64
	Max  int64
}

// ActionRequest asks a single player to act.
type ActionRequest struct {
	PlayerID  string
	Seq       int
	Options   []PossibleAction
	TimeToAct time.Duration
	TotalPot  int64
}

// Option returns the possible action of the given type if it is offered.
func (r ActionRequest) Option(t ActionType) (PossibleAction, bool) {
	for _, o := range r.Options {
		if o.Type == t {
			return o, true
		}
	}
	return PossibleAction{}, false
}

// Allows reports whether the action type is offered.
func (r ActionRequest) Allows(t ActionType) bool {
	_, ok := r.Option(t)
	return ok
}

// PlayerAction is an action submitted by a player. Amount is the total bet of
// the round for BET and RAISE and is ignored for other action types.
type PlayerAction struct {
	PlayerID string
	Type     ActionType
	Amount   int64
}

func (a PlayerAction) String() string {
	if a.Amount > 0 {
		return fmt.Sprintf("%s %s %d", a.PlayerID, a.Type, a.Amount)
	}
	return fmt.Sprintf("%s %s", a.PlayerID, a.Type)
}

// PerformedAction describes an accepted action after it was applied.
type PerformedAction struct {
	PlayerAction
	// Paid is the number of chips moved from balance to the bet stack.
	Paid     int64
	BetStack int64
	Balance  int64
	AllIn    bool
	TimedOut bool
}

// validate checks a submitted action against the request it answers.
func (r ActionRequest) validate(a PlayerAction) (PossibleAction, error) {
	if a.PlayerID != r.PlayerID {
		return PossibleAction{}, fmt.Errorf("%w: waiting for %s, got %s", ErrNotYourTurn, r.PlayerID, a.PlayerID)
	}
	opt, ok := r.Option(a.Type)
	if !ok {
		return PossibleAction{}, fmt.Errorf("%w: %s not offered to %s", ErrIllegalAction, a.Type, a.PlayerID)
	}
	if (a.Type == Bet || a.Type == Raise) && (a.Amount < opt.Min || a.Amount > opt.Max) {
		return PossibleAction{}, fmt.Errorf("%w: %s amount %d outside [%d, %d]", ErrIllegalAction, a.Type, a.Amount, opt.Min, opt.Max)
	}
	return opt, nil
}
