// Package history records played hands as PHH hand histories.
package history

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/fileutil"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/phh"
)

// Config configures the recorder of one table
type Config struct {
	TableID  string
	Variant  game.Variant
	Settings game.Settings
	// IncludeHoleCards writes hidden pocket cards instead of "??".
	IncludeHoleCards bool
	Clock            quartz.Clock
}

// Recorder turns table notifications into hand histories. Only normally
// ended hands are kept. It is safe for concurrent use.
type Recorder struct {
	cfg     Config
	variant string
	clock   quartz.Clock

	mu      sync.Mutex
	hands   []*phh.HandHistory
	current *handState
}

type handState struct {
	history  *phh.HandHistory
	position map[string]int
}

// NewRecorder creates an empty recorder
func NewRecorder(cfg Config) *Recorder {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	return &Recorder{
		cfg:     cfg,
		variant: VariantCode(cfg.Variant, cfg.Settings.BetStrategy),
		clock:   cfg.Clock,
	}
}

// VariantCode returns the PHH variant code. PHH has no code for some games;
// they are written by name.
func VariantCode(v game.Variant, s game.BetStrategy) string {
	if v == nil {
		v = game.TexasHoldem{}
	}
	if _, ok := v.(game.TexasHoldem); ok {
		switch s.(type) {
		case game.NoLimit:
			return "NT"
		case game.PotLimit:
			return "PT"
		}
	}
	return v.Name()
}

// HandStarted begins a new hand. Players are ordered from the first seat
// after the dealer.
func (r *Recorder) HandStarted(info game.HandInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := slices.Clone(info.Players)
	slices.SortFunc(players, func(a, b game.SeatInfo) int {
		return afterDealer(a.Seat, info.DealerSeat, r.cfg.Settings.Seats) -
			afterDealer(b.Seat, info.DealerSeat, r.cfg.Settings.Seats)
	})

	n := len(players)
	h := &phh.HandHistory{
		Variant:           r.variant,
		Table:             r.cfg.TableID,
		SeatCount:         r.cfg.Settings.Seats,
		Seats:             make([]int, n),
		Antes:             make([]int64, n),
		BlindsOrStraddles: make([]int64, n),
		MinBet:            r.cfg.Settings.BigBlind,
		StartingStacks:    make([]int64, n),
		Players:           make([]string, n),
		HandID:            info.HandID,
	}
	h.SetTime(r.clock.Now())

	state := &handState{history: h, position: make(map[string]int, n)}
	for pos, p := range players {
		h.Seats[pos] = p.Seat + 1
		h.StartingStacks[pos] = p.Balance
		h.Players[pos] = p.PlayerID
		state.position[p.PlayerID] = pos
	}
	r.current = state
}

// afterDealer is the clockwise distance from the dealer, the dealer last
func afterDealer(seat, dealer, seats int) int {
	d := (seat - dealer + seats) % seats
	if d == 0 {
		return seats
	}
	return d
}

// PocketCards records cards dealt to a player
func (r *Recorder) PocketCards(playerID string, cards []deck.Card, exposed bool) {
	r.record(playerID, func(pos int) string {
		return phh.DealHole(pos, cards, !exposed && !r.cfg.IncludeHoleCards)
	})
}

// CommunityCards records a board deal
func (r *Recorder) CommunityCards(cards []deck.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.history.Actions = append(r.current.history.Actions, phh.DealBoard(cards))
	}
}

// Showdown records the cards shown at showdown
func (r *Recorder) Showdown(shown []game.ExposedCards) {
	for _, s := range shown {
		r.record(s.PlayerID, func(pos int) string {
			return phh.ShowCards(pos, s.Cards)
		})
	}
}

// Action records a performed action. Forced bets go to the antes and
// blinds arrays.
func (r *Recorder) Action(a game.PerformedAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	pos, ok := r.current.position[a.PlayerID]
	if !ok {
		return
	}
	h := r.current.history
	switch a.Type {
	case game.Ante:
		h.Antes[pos] = a.Paid
	case game.SmallBlind, game.BigBlind:
		h.BlindsOrStraddles[pos] = a.Paid
	}
	if s, ok := phh.FormatAction(pos, a); ok {
		h.Actions = append(h.Actions, s)
	}
}

func (r *Recorder) record(playerID string, format func(pos int) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	if pos, ok := r.current.position[playerID]; ok {
		r.current.history.Actions = append(r.current.history.Actions, format(pos))
	}
}

// HandEnded completes the current hand. Canceled hands are discarded.
func (r *Recorder) HandEnded(result *game.HandResult, status game.HandEndStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.current
	r.current = nil
	if state == nil || result == nil || status != game.HandEndNormal {
		return
	}

	h := state.history
	h.FinishingStacks = slices.Clone(h.StartingStacks)
	h.Winnings = make([]int64, len(h.StartingStacks))
	for id, pr := range result.Results {
		pos, ok := state.position[id]
		if !ok {
			continue
		}
		h.FinishingStacks[pos] += pr.Net()
		h.Winnings[pos] = pr.WinningsIncludingOwnBets
	}
	r.hands = append(r.hands, h)
}

// Hands returns the recorded hands
func (r *Recorder) Hands() []*phh.HandHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.hands)
}

// Encode writes all recorded hands as a PHH session
func (r *Recorder) Encode(w io.Writer) error {
	return phh.EncodeSession(w, 1, r.Hands())
}

// Save writes the session to filename atomically
func (r *Recorder) Save(filename string) error {
	if err := fileutil.WriteAtomic(filename, 0o644, r.Encode); err != nil {
		return fmt.Errorf("save hand history %s: %w", filename, err)
	}
	return nil
}

