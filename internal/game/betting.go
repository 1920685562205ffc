package game

// bettingRound collects the actions of one street.
type bettingRound struct {
	highBet  int64
	minRaise int64
	// lastToBeCalled is the player whose bet the others must match.
	lastToBeCalled      string
	toAct               *Player
	request             ActionRequest
	consecutiveTimeouts int
	done                bool
}

func newBettingRound() *bettingRound {
	return &bettingRound{}
}

func (r *bettingRound) Kind() RoundKind { return KindBetting }

func (r *bettingRound) start(h *Hand) {
	r.minRaise = h.settings.BigBlind
	for _, p := range h.players {
		p.HasActed = false
		if p.BetStack > r.highBet {
			r.highBet = p.BetStack
			r.lastToBeCalled = p.ID
		}
	}
	if r.complete(h) {
		r.done = true
		return
	}
	from := h.dealerSeat
	if h.bettingRounds == 0 && h.bigBlindSeat >= 0 {
		from = h.bigBlindSeat
	}
	r.requestNext(h, from)
}

func (r *bettingRound) needsToAct(p *Player) bool {
	return p.Active() && (!p.HasActed || p.BetStack < r.highBet)
}

// complete reports whether every player still able to act has acted and
// matched the bet, or at most one player can act and owes nothing.
func (r *bettingRound) complete(h *Hand) bool {
	if len(h.nonFolded()) <= 1 {
		return true
	}
	var active []*Player
	for _, p := range h.players {
		if p.Active() {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return true
	}
	if len(active) == 1 && active[0].BetStack >= r.highBet {
		return true
	}
	for _, p := range active {
		if r.needsToAct(p) {
			return false
		}
	}
	return true
}

// owing reports whether an active player has not matched the bet.
func (r *bettingRound) owing(h *Hand) bool {
	for _, p := range h.players {
		if p.Active() && p.BetStack < r.highBet {
			return true
		}
	}
	return false
}

func (r *bettingRound) requestNext(h *Hand, fromSeat int) {
	next := h.nextPlayer(fromSeat, r.needsToAct)
	if next == nil {
		r.done = true
		return
	}
	r.toAct = next
	r.request = h.requestAction(next, r.options(h, next))
}

// options derives the legal actions of p. Raising is not offered when all
// other players in the hand are all-in, or to a player who already acted and
// has not faced a full raise since.
func (r *bettingRound) options(h *Hand, p *Player) []PossibleAction {
	toCall := r.highBet - p.BetStack
	var opts []PossibleAction
	if toCall <= 0 {
		opts = append(opts, PossibleAction{Type: Check})
	} else {
		amount := min(toCall, p.Balance)
		opts = append(opts, PossibleAction{Type: Call, Min: amount, Max: amount})
	}

	othersCanAct := false
	for _, o := range h.players {
		if o != p && o.Active() {
			othersCanAct = true
			break
		}
	}
	if othersCanAct && !p.HasActed && p.Balance > toCall {
		ctx := BetContext{
			HighBet:  r.highBet,
			MinRaise: r.minRaise,
			BigBlind: h.settings.BigBlind,
			PotSize:  h.totalPot(),
			BetStack: p.BetStack,
			Balance:  p.Balance,
		}
		t := Raise
		if r.highBet == 0 {
			t = Bet
		}
		opts = append(opts, PossibleAction{
			Type: t,
			Min:  h.settings.BetStrategy.MinBet(ctx),
			Max:  h.settings.BetStrategy.MaxBet(ctx),
		})
	}
	return append(opts, PossibleAction{Type: Fold})
}

func (r *bettingRound) act(h *Hand, a PlayerAction) error {
	if r.toAct == nil {
		return errNoRequest(a.PlayerID)
	}
	opt, err := r.request.validate(a)
	if err != nil {
		return err
	}
	r.consecutiveTimeouts = 0
	r.apply(h, a, opt, false)
	return nil
}

func (r *bettingRound) apply(h *Hand, a PlayerAction, opt PossibleAction, timedOut bool) {
	p := r.toAct
	r.toAct = nil

	var paid int64
	switch a.Type {
	case Call:
		paid = opt.Min
	case Bet, Raise:
		paid = a.Amount - p.BetStack
		raise := a.Amount - r.highBet
		// a short all-in raise only has to be called
		reopens := r.highBet == 0 || raise >= r.minRaise
		if raise >= r.minRaise {
			r.minRaise = raise
		}
		r.highBet = a.Amount
		r.lastToBeCalled = p.ID
		h.lastAggressor = p.ID
		if reopens {
			for _, o := range h.players {
				if o != p {
					o.HasActed = false
				}
			}
		}
	case Fold:
		p.Folded = true
	}
	p.Commit(paid)
	p.HasActed = true
	h.performed(p, a, paid, timedOut)

	if r.complete(h) || (timedOut && r.consecutiveTimeouts >= 2 && !r.owing(h)) {
		r.done = true
		return
	}
	r.requestNext(h, p.Seat)
}

// timeout checks for the player if possible and folds otherwise. A second
// consecutive timeout ends the round once nobody owes chips.
func (r *bettingRound) timeout(h *Hand, t Timeout) {
	if t.Kind != PlayerTimeout || r.toAct == nil || t.PlayerID != r.toAct.ID || t.Seq != r.request.Seq {
		h.logger.Debug("ignoring stale timeout", "kind", t.Kind, "player", t.PlayerID, "seq", t.Seq)
		return
	}
	action := PlayerAction{PlayerID: t.PlayerID, Type: Fold}
	opt := PossibleAction{Type: Fold}
	if o, ok := r.request.Option(Check); ok {
		action.Type, opt = Check, o
	}
	h.logger.Warn("player timed out", "player", t.PlayerID, "action", action.Type)
	r.consecutiveTimeouts++
	r.apply(h, action, opt, true)
}

func (r *bettingRound) finished() bool { return r.done }
