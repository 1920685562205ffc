package game

import "fmt"

type blindStage int

const (
	askingSmallBlind blindStage = iota
	askingBigBlind
	blindsPosted
)

// blindsRound asks for the small and then the big blind. Players declining
// or timing out are sat out and the next player in turn is asked instead.
type blindsRound struct {
	stage    blindStage
	small    *Player
	asked    *Player
	request  ActionRequest
	canceled bool
}

func newBlindsRound() *blindsRound {
	return &blindsRound{}
}

func (r *blindsRound) Kind() RoundKind { return KindBlinds }

func (r *blindsRound) start(h *Hand) {
	var first *Player
	if h.participants() == 2 {
		first = h.playerAtSeat(h.dealerSeat)
	}
	if first == nil {
		first = h.nextPlayer(h.dealerSeat, func(p *Player) bool { return !p.Folded })
	}
	r.ask(h, first)
}

func (r *blindsRound) blind(h *Hand) (ActionType, int64) {
	if r.stage == askingSmallBlind {
		return SmallBlind, h.settings.SmallBlind
	}
	return BigBlind, h.settings.BigBlind
}

func (r *blindsRound) ask(h *Hand, p *Player) {
	if p == nil || p == r.small || h.participants() < 2 {
		r.cancel(h)
		return
	}
	t, amount := r.blind(h)
	amount = min(amount, p.Balance)
	r.asked = p
	r.request = h.requestAction(p, []PossibleAction{
		{Type: t, Min: amount, Max: amount},
		{Type: DeclineEntryBet},
	})
	if p.AutoPostBlinds {
		h.adapter.ScheduleTimeout(h.settings.Timing.AutoPostBlindDelay, Timeout{
			Kind: AutoPostBlind, PlayerID: p.ID, Seq: r.request.Seq,
		})
	}
}

func (r *blindsRound) cancel(h *Hand) {
	h.logger.Info("hand canceled, not enough players posted blinds")
	r.canceled = true
	r.stage = blindsPosted
	r.asked = nil
}

func (r *blindsRound) act(h *Hand, a PlayerAction) error {
	if r.asked == nil {
		return errNoRequest(a.PlayerID)
	}
	opt, err := r.request.validate(a)
	if err != nil {
		return err
	}
	p := r.asked
	r.asked = nil

	if a.Type == DeclineEntryBet {
		r.decline(h, p, false)
		return nil
	}
	p.Commit(opt.Min)
	h.performed(p, a, opt.Min, false)
	if r.stage == askingSmallBlind {
		r.small = p
		r.stage = askingBigBlind
		r.ask(h, h.nextPlayer(p.Seat, func(p *Player) bool { return !p.Folded }))
		return nil
	}
	h.bigBlindSeat = p.Seat
	r.stage = blindsPosted
	return nil
}

func (r *blindsRound) decline(h *Hand, p *Player, timedOut bool) {
	h.performed(p, PlayerAction{PlayerID: p.ID, Type: DeclineEntryBet}, 0, timedOut)
	h.sitOut(p, MissedBlind)
	r.ask(h, h.nextPlayer(p.Seat, func(p *Player) bool { return !p.Folded }))
}

func (r *blindsRound) timeout(h *Hand, t Timeout) {
	if r.asked == nil || t.PlayerID != r.asked.ID || t.Seq != r.request.Seq {
		h.logger.Debug("ignoring stale timeout", "kind", t.Kind, "player", t.PlayerID, "seq", t.Seq)
		return
	}
	p := r.asked
	switch t.Kind {
	case AutoPostBlind:
		blind, _ := r.blind(h)
		if err := r.act(h, PlayerAction{PlayerID: p.ID, Type: blind}); err != nil {
			panic(fmt.Sprintf("auto post blind: %v", err))
		}
	case PlayerTimeout:
		r.asked = nil
		r.decline(h, p, true)
	}
}

func (r *blindsRound) finished() bool {
	return r.stage == blindsPosted
}
