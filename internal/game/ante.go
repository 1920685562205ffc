package game

// anteRound requests the ante from every participant at once. Players who
// decline or time out sit out with MissedAnte; fewer than two antes cancel
// the hand.
type anteRound struct {
	requests map[string]ActionRequest
	answered map[string]bool
	anted    int
	canceled bool
	done     bool
}

func newAnteRound() *anteRound {
	return &anteRound{requests: map[string]ActionRequest{}, answered: map[string]bool{}}
}

func (r *anteRound) Kind() RoundKind { return KindAnte }

func (r *anteRound) start(h *Hand) {
	var reqs []ActionRequest
	for _, p := range h.dealOrder() {
		amount := min(h.settings.Ante, p.Balance)
		req := h.newRequest(p, []PossibleAction{
			{Type: Ante, Min: amount, Max: amount},
			{Type: DeclineAnte},
		})
		r.requests[p.ID] = req
		reqs = append(reqs, req)
	}
	h.adapter.RequestMultipleActions(reqs)
}

func (r *anteRound) act(h *Hand, a PlayerAction) error {
	req, ok := r.requests[a.PlayerID]
	if !ok || r.answered[a.PlayerID] {
		return errNoRequest(a.PlayerID)
	}
	opt, err := req.validate(a)
	if err != nil {
		return err
	}
	r.apply(h, h.player(a.PlayerID), a, opt, false)
	return nil
}

func (r *anteRound) apply(h *Hand, p *Player, a PlayerAction, opt PossibleAction, timedOut bool) {
	r.answered[p.ID] = true
	if a.Type == Ante {
		p.Commit(opt.Min)
		r.anted++
		h.performed(p, a, opt.Min, timedOut)
	} else {
		h.performed(p, a, 0, timedOut)
		h.sitOut(p, MissedAnte)
	}
	if len(r.answered) < len(r.requests) {
		return
	}
	r.done = true
	if r.anted < 2 {
		h.logger.Info("hand canceled, not enough antes", "anted", r.anted)
		r.canceled = true
	}
}

func (r *anteRound) timeout(h *Hand, t Timeout) {
	req, ok := r.requests[t.PlayerID]
	if t.Kind != PlayerTimeout || !ok || r.answered[t.PlayerID] || req.Seq != t.Seq {
		return
	}
	r.apply(h, h.player(t.PlayerID), PlayerAction{PlayerID: t.PlayerID, Type: DeclineAnte}, PossibleAction{Type: DeclineAnte}, true)
}

func (r *anteRound) finished() bool { return r.done }
