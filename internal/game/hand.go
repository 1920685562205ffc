package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/evaluator"
	"github.com/lox/pokertable/internal/pot"
)

// HandConfig holds everything a hand needs from its table.
type HandConfig struct {
	ID       string
	Variant  Variant
	Settings Settings
	// Players is the roster of the hand. They must have distinct seats.
	Players    []*Player
	DealerSeat int
	Adapter    Adapter
	Logger     *log.Logger
	Rand       *rand.Rand
	// Deck replaces the variant's shuffled deck, e.g. with a rigged one.
	Deck       *deck.Deck
	OnFinished func(result *HandResult, status HandEndStatus)
}

// Hand plays one hand of poker. It is not safe for concurrent use; the table
// feeds it one action or timeout at a time.
type Hand struct {
	id         string
	variant    Variant
	settings   Settings
	adapter    Adapter
	logger     *log.Logger
	rng        *rand.Rand
	onFinished func(*HandResult, HandEndStatus)

	players      []*Player
	dealerSeat   int
	bigBlindSeat int
	deck         *deck.Deck
	eval         evaluator.Evaluator
	pots         *pot.Holder
	community    []deck.Card
	round        Round

	// roundID counts dealing rounds played after the first betting round.
	roundID       int
	bettingRounds int
	lastAggressor string
	seq           int
	done          bool
}

// NewHand prepares a hand. Fewer than two players is a contract violation.
func NewHand(cfg HandConfig) *Hand {
	if len(cfg.Players) < 2 {
		panic("not enough players")
	}
	if cfg.Variant == nil {
		cfg.Variant = TexasHoldem{}
	}
	if cfg.Rand == nil && cfg.Deck == nil {
		panic("hand: rand is required without a deck")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	players := slices.Clone(cfg.Players)
	slices.SortFunc(players, func(a, b *Player) int { return a.Seat - b.Seat })
	return &Hand{
		id:           cfg.ID,
		variant:      cfg.Variant,
		settings:     cfg.Settings,
		adapter:      cfg.Adapter,
		logger:       cfg.Logger.With("hand", cfg.ID),
		rng:          cfg.Rand,
		onFinished:   cfg.OnFinished,
		players:      players,
		dealerSeat:   cfg.DealerSeat,
		bigBlindSeat: -1,
		deck:         cfg.Deck,
	}
}

// ID returns the hand id
func (h *Hand) ID() string { return h.id }

// Finished reports whether the hand has ended
func (h *Hand) Finished() bool { return h.done }

// Round returns the round currently played
func (h *Hand) Round() Round { return h.round }

// Community returns the community cards dealt so far
func (h *Hand) Community() []deck.Card { return slices.Clone(h.community) }

// Pots returns the pot ledger of the hand
func (h *Hand) Pots() *pot.Holder { return h.pots }

// Players returns the hand roster in seat order
func (h *Hand) Players() []*Player { return slices.Clone(h.players) }

// Start resets the roster, shuffles the deck and opens the first round.
func (h *Hand) Start() error {
	for _, p := range h.players {
		p.ResetForHand()
	}
	n := len(h.players)
	if h.deck == nil {
		h.deck = h.variant.NewDeck(n, h.rng)
	}
	h.eval = h.variant.Evaluator(n)
	h.pots = pot.NewHolder(h.id, h.settings.Rake)

	h.logger.Info("hand started", "variant", h.variant.Name(), "players", n, "dealer", h.dealerSeat)
	h.adapter.NotifyDealerButton(h.dealerSeat)
	h.adapter.NotifyDeckInfo(h.deck.Size(), h.deck.LowestRank())

	h.round = h.variant.FirstRound()
	h.adapter.NotifyNewRound(h.round.Kind())
	h.round.start(h)
	return h.checkRound()
}

// Act applies a player action. Rejected actions leave the hand untouched.
func (h *Hand) Act(a PlayerAction) error {
	if h.done {
		return ErrNoActiveHand
	}
	if err := h.round.act(h, a); err != nil {
		return err
	}
	return h.checkRound()
}

// HandleTimeout processes a timeout scheduled by the hand.
func (h *Hand) HandleTimeout(t Timeout) error {
	if h.done {
		return nil
	}
	if t.Kind == RoundTimeout {
		if !h.round.Kind().dealing() || !h.round.finished() {
			return nil
		}
		return h.advance()
	}
	h.round.timeout(h, t)
	return h.checkRound()
}

// Stop ends the hand without a result. Used on table shutdown.
func (h *Hand) Stop() {
	h.done = true
}

func (h *Hand) checkRound() error {
	if h.done || !h.round.finished() {
		return nil
	}
	return h.roundFinished()
}

func (h *Hand) roundFinished() error {
	switch r := h.round.(type) {
	case *blindsRound:
		if r.canceled {
			h.cancel()
			return nil
		}
	case *anteRound:
		if r.canceled {
			h.cancel()
			return nil
		}
		h.settle()
	case *bettingRound:
		h.settle()
		h.bettingRounds++
		for _, p := range h.players {
			p.HasActed = false
		}
	}
	return h.advance()
}

// advance moves to the round the variant plays next. Dealing rounds wait for a
// RoundTimeout before play continues.
func (h *Hand) advance() error {
	next, err := h.variant.Next(h, h.round)
	if err != nil {
		return fmt.Errorf("%s: %w", h.variant.Name(), err)
	}
	if next == nil {
		h.showdown()
		return nil
	}
	h.round = next
	h.adapter.NotifyNewRound(next.Kind())
	next.start(h)
	if !next.finished() {
		return nil
	}
	if next.Kind().dealing() {
		h.adapter.ScheduleTimeout(h.settings.Timing.CommunityDelay, Timeout{Kind: RoundTimeout})
		return nil
	}
	return h.roundFinished()
}

// settle moves all bet stacks into the pots and returns uncalled chips.
func (h *Hand) settle() {
	bets := make([]pot.Bet, 0, len(h.players))
	for _, p := range h.players {
		bets = append(bets, pot.Bet{PlayerID: p.ID, Amount: p.BetStack, AllIn: p.AllIn})
	}
	s := h.pots.Collect(bets)
	for _, p := range h.players {
		if amount := s.Returned[p.ID]; amount > 0 {
			h.logger.Debug("returning uncalled chips", "player", p.ID, "amount", amount)
			p.ReturnChips(amount)
		}
		p.BetStack = 0
	}
	h.adapter.NotifyPotUpdates(PotUpdate{
		Pots:        h.pots.Pots(),
		Transitions: s.Transitions,
		Returned:    s.Returned,
	})
	for _, p := range h.players {
		h.adapter.NotifyPlayerBalance(p.ID, p.Balance, p.BetStack)
	}
}

func (h *Hand) cancel() {
	for _, p := range h.players {
		if p.BetStack > 0 {
			p.ReturnChips(p.BetStack)
			h.adapter.NotifyPlayerBalance(p.ID, p.Balance, p.BetStack)
		}
	}
	h.finish(&HandResult{
		HandID:     h.id,
		DealerSeat: h.dealerSeat,
		Results:    map[string]PlayerResult{},
	}, HandEndCanceledTooFewPlayers)
}

func (h *Hand) showdown() {
	remaining := h.nonFolded()
	inHand := func(id string) bool {
		p := h.player(id)
		return p != nil && !p.Folded
	}

	var order []string
	if len(remaining) > 1 {
		order = RevealOrder(h.players, h.dealerSeat, h.lastAggressor)
		h.adapter.NotifyRevealOrder(order)
		exposed := make([]ExposedCards, 0, len(order))
		for _, id := range order {
			p := h.player(id)
			p.ShowingCards = true
			exposed = append(exposed, ExposedCards{PlayerID: id, Cards: p.HiddenCards()})
		}
		h.adapter.ExposePrivateCards(exposed)
	}

	mucking := h.muckingPlayers()
	for _, id := range mucking {
		h.player(id).Mucked = true
	}

	rakeable := !h.settings.NoFlopNoDrop || h.bettingRounds > 1
	rake := h.pots.ApplyRake(rakeable)

	rated := map[string]evaluator.Hand{}
	var ratedHands []RatedHand
	for _, p := range remaining {
		cards := append(slices.Clone(p.Pocket), h.community...)
		hand := h.eval.Evaluate(cards)
		rated[p.ID] = hand
		ratedHands = append(ratedHands, RatedHand{PlayerID: p.ID, Cards: cards, Hand: hand})
	}

	results := make(map[string]PlayerResult, len(h.players))
	for _, p := range h.players {
		results[p.ID] = PlayerResult{
			PlayerID:      p.ID,
			Seat:          p.Seat,
			AggregatedBet: h.pots.Contribution(p.ID),
			Rake:          rake.PerPlayer[p.ID],
		}
	}

	pots := h.pots.Pots()
	for _, pt := range pots {
		eligible := pt.Eligible(inHand)
		if len(eligible) == 0 {
			for _, p := range remaining {
				eligible = append(eligible, p.ID)
			}
		}
		winners := h.potWinners(eligible, rated)
		for id, amount := range pot.Split(pt.Size, winners) {
			r := results[id]
			r.WinningsIncludingOwnBets += amount
			results[id] = r
		}
		h.logger.Debug("pot awarded", "pot", pt.ID, "size", pt.Size, "winners", winners)
	}

	h.finish(&HandResult{
		HandID:      h.id,
		DealerSeat:  h.dealerSeat,
		Results:     results,
		RatedHands:  ratedHands,
		Pots:        pots,
		Transitions: h.pots.Transitions(),
		Rake:        rake,
		Community:   slices.Clone(h.community),
		RevealOrder: order,
		Mucking:     mucking,
	}, HandEndNormal)
}

// potWinners returns the best hands among eligible, ordered clockwise from
// the dealer so odd chips go to the first seat after the button.
func (h *Hand) potWinners(eligible []string, rated map[string]evaluator.Hand) []string {
	if len(eligible) == 1 {
		return eligible
	}
	var ordered []string
	for _, p := range h.seatsFrom(h.dealerSeat) {
		if slices.Contains(eligible, p.ID) {
			ordered = append(ordered, p.ID)
		}
	}
	hands := make([]evaluator.Hand, len(ordered))
	for i, id := range ordered {
		hands[i] = rated[id]
	}
	var winners []string
	for _, i := range evaluator.Best(hands) {
		winners = append(winners, ordered[i])
	}
	return winners
}

// muckingPlayers is everyone when at most one player remains, else the folded.
func (h *Hand) muckingPlayers() []string {
	all := len(h.nonFolded()) <= 1
	var out []string
	for _, p := range h.players {
		if all || p.Folded {
			out = append(out, p.ID)
		}
	}
	return out
}

func (h *Hand) finish(result *HandResult, status HandEndStatus) {
	h.done = true
	h.logger.Info("hand finished", "status", status, "pots", len(result.Pots), "rake", result.Rake.Total)
	if h.onFinished != nil {
		h.onFinished(result, status)
	}
}

func (h *Hand) dealPocketCards(hidden, exposed int) {
	for _, p := range h.dealOrder() {
		if hidden > 0 {
			cards := h.deck.DealN(hidden)
			for _, c := range cards {
				p.DealPocket(c, false)
			}
			h.adapter.NotifyPrivateCards(p.ID, cards)
		}
		if exposed > 0 {
			cards := h.deck.DealN(exposed)
			for _, c := range cards {
				p.DealPocket(c, true)
			}
			h.adapter.NotifyExposedPocketCards(p.ID, cards)
		}
	}
}

func (h *Hand) newRequest(p *Player, opts []PossibleAction) ActionRequest {
	h.seq++
	return ActionRequest{
		PlayerID:  p.ID,
		Seq:       h.seq,
		Options:   opts,
		TimeToAct: h.settings.Timing.ActionTimeout,
		TotalPot:  h.totalPot(),
	}
}

func (h *Hand) requestAction(p *Player, opts []PossibleAction) ActionRequest {
	req := h.newRequest(p, opts)
	h.logger.Debug("requesting action", "player", p.ID, "seq", req.Seq, "options", len(opts))
	h.adapter.RequestAction(req)
	return req
}

func (h *Hand) performed(p *Player, a PlayerAction, paid int64, timedOut bool) {
	if a.Type != Bet && a.Type != Raise {
		a.Amount = paid
	}
	h.logger.Debug("action performed", "player", p.ID, "action", a.Type, "amount", a.Amount, "timeout", timedOut)
	h.adapter.NotifyActionPerformed(PerformedAction{
		PlayerAction: a,
		Paid:         paid,
		BetStack:     p.BetStack,
		Balance:      p.Balance,
		AllIn:        p.AllIn,
		TimedOut:     timedOut,
	})
	h.adapter.NotifyPlayerBalance(p.ID, p.Balance, p.BetStack)
	if p.AllIn && paid > 0 {
		h.adapter.NotifyPlayerStatus(p.ID, StatusAllIn)
	}
}

func (h *Hand) sitOut(p *Player, reason SitOutReason) {
	p.Folded = true
	p.SitOutReason = reason
	h.adapter.NotifyPlayerStatus(p.ID, StatusSittingOut)
}

func (h *Hand) totalPot() int64 {
	var total int64
	if h.pots != nil {
		total = h.pots.Total()
	}
	for _, p := range h.players {
		total += p.BetStack
	}
	return total
}

func (h *Hand) player(id string) *Player {
	for _, p := range h.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (h *Hand) playerAtSeat(seat int) *Player {
	for _, p := range h.players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func (h *Hand) participants() int {
	return len(h.nonFolded())
}

func (h *Hand) nonFolded() []*Player {
	var out []*Player
	for _, p := range h.players {
		if !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// seatsFrom returns the roster clockwise starting after seat.
func (h *Hand) seatsFrom(seat int) []*Player {
	return clockwise(h.players, seat)
}

// dealOrder lists players still in the hand, first seat after the dealer first.
func (h *Hand) dealOrder() []*Player {
	var out []*Player
	for _, p := range h.seatsFrom(h.dealerSeat) {
		if !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// nextPlayer returns the first player clockwise after seat matching pred.
func (h *Hand) nextPlayer(seat int, pred func(*Player) bool) *Player {
	for _, p := range h.seatsFrom(seat) {
		if pred(p) {
			return p
		}
	}
	return nil
}

func errNoRequest(playerID string) error {
	return fmt.Errorf("%w: no action requested from %s", ErrNotYourTurn, playerID)
}
