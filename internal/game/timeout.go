package game

import "time"

// TimeoutKind identifies what a scheduled timeout is for
type TimeoutKind int

const (
	// StartNewHand fires when the table should try to start the next hand.
	StartNewHand TimeoutKind = iota
	// PlayerTimeout fires when a player did not answer an action request.
	PlayerTimeout
	// RoundTimeout fires after the delay following a card dealing round.
	RoundTimeout
	// AutoPostBlind fires when a blind should be posted on the player's behalf.
	AutoPostBlind
)

func (k TimeoutKind) String() string {
	return [...]string{"START_NEW_HAND", "PLAYER_TIMEOUT", "ROUND_TIMEOUT", "AUTO_POST_BLIND"}[k]
}

// Timeout is scheduled through the Adapter and handed back to the table when
// it fires. PlayerID and Seq tie player timeouts to the request they answer so
// that stale timeouts are ignored.
type Timeout struct {
	Kind     TimeoutKind
	PlayerID string
	Seq      int
}

// Timing holds the durations of the table phases.
type Timing struct {
	ActionTimeout      time.Duration
	LatencyGrace       time.Duration
	AutoPostBlindDelay time.Duration
	NewHandDelay       time.Duration
	CommunityDelay     time.Duration
}

// DefaultTiming returns the durations used when none are configured.
func DefaultTiming() Timing {
	return Timing{
		ActionTimeout:      15 * time.Second,
		LatencyGrace:       2 * time.Second,
		AutoPostBlindDelay: time.Second,
		NewHandDelay:       3 * time.Second,
		CommunityDelay:     time.Second,
	}
}
