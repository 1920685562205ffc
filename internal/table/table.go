// Package table implements the outer table state machine: seating, buy-ins,
// sitting in and out, and starting hands when enough players are ready.
package table

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/gameid"
)

var (
	ErrSeatTaken     = errors.New("seat is taken")
	ErrInvalidSeat   = errors.New("invalid seat")
	ErrAlreadySeated = errors.New("player already seated")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrInvalidBuyIn  = errors.New("invalid buy-in")
	ErrShutdown      = errors.New("table is shut down")
)

// State is the hand lifecycle state of a table
type State int

const (
	NotStarted State = iota
	WaitingToStart
	Playing
	Shutdown
)

func (s State) String() string {
	return [...]string{"NOT_STARTED", "WAITING_TO_START", "PLAYING", "SHUTDOWN"}[s]
}

// Config holds the dependencies of a table.
type Config struct {
	ID       string
	Variant  game.Variant
	Settings game.Settings
	Adapter  game.Adapter
	Logger   *log.Logger
	Rand     *rand.Rand
	// Clock stamps hand ids. Defaults to the real clock.
	Clock quartz.Clock
	// DeckFactory overrides the variant deck, used for rigged decks.
	DeckFactory func(participants int) *deck.Deck
}

// Table is one poker table. It is not safe for concurrent use: the host must
// deliver commands and timeouts one at a time.
type Table struct {
	id          string
	variant     game.Variant
	settings    game.Settings
	adapter     game.Adapter
	logger      *log.Logger
	rng         *rand.Rand
	deckFactory func(int) *deck.Deck
	ids         *gameid.Generator

	state      State
	players    map[string]*game.Player
	hand       *game.Hand
	roster     []*game.Player
	dealerSeat int
	hands      int
}

// New creates a table in NOT_STARTED state.
func New(cfg Config) (*Table, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("table %s: %w", cfg.ID, err)
	}
	if cfg.Adapter == nil {
		return nil, fmt.Errorf("table %s: adapter is required", cfg.ID)
	}
	if cfg.Variant == nil {
		cfg.Variant = game.TexasHoldem{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("table %s: rand is required", cfg.ID)
	}
	return &Table{
		id:          cfg.ID,
		variant:     cfg.Variant,
		settings:    cfg.Settings,
		adapter:     cfg.Adapter,
		logger:      cfg.Logger.WithPrefix("table").With("table", cfg.ID),
		rng:         cfg.Rand,
		deckFactory: cfg.DeckFactory,
		ids:         gameid.NewGenerator(cfg.Clock, cfg.Rand),
		players:     map[string]*game.Player{},
		dealerSeat:  -1,
	}, nil
}

// ID returns the table id
func (t *Table) ID() string { return t.id }

// State returns the current lifecycle state
func (t *Table) State() State { return t.state }

// Hand returns the hand in play, or nil
func (t *Table) Hand() *game.Hand {
	if t.state != Playing {
		return nil
	}
	return t.hand
}

// HandsPlayed counts hands started on this table
func (t *Table) HandsPlayed() int { return t.hands }

// Settings returns the table settings
func (t *Table) Settings() game.Settings { return t.settings }

// Player returns a seated player
func (t *Table) Player(id string) (*game.Player, bool) {
	p, ok := t.players[id]
	return p, ok
}

// Players returns seated players in seat order
func (t *Table) Players() []*game.Player {
	out := make([]*game.Player, 0, len(t.players))
	for _, p := range t.players {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *game.Player) int { return a.Seat - b.Seat })
	return out
}

// setState moves the table to s. Leaving SHUTDOWN is a contract violation.
func (t *Table) setState(s State) {
	if t.state == Shutdown && s != Shutdown {
		panic(fmt.Sprintf("table %s is shut down, cannot move to %s", t.id, s))
	}
	if t.state != s {
		t.logger.Debug("state change", "from", t.state, "to", s)
	}
	t.state = s
}

// AddPlayer seats a player with the given balance.
func (t *Table) AddPlayer(id string, seat int, balance int64) error {
	if t.state == Shutdown {
		return ErrShutdown
	}
	if seat < 0 || seat >= t.settings.Seats {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	if _, ok := t.players[id]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadySeated, id)
	}
	for _, p := range t.players {
		if p.Seat == seat {
			return fmt.Errorf("%w: %d", ErrSeatTaken, seat)
		}
	}
	p := &game.Player{ID: id, Seat: seat, Balance: balance}
	t.players[id] = p
	t.logger.Info("player seated", "player", id, "seat", seat, "balance", balance)
	t.adapter.NotifyPlayerBalance(id, balance, 0)
	t.adapter.NotifyPlayerStatus(id, game.StatusSittingIn)
	if !game.CanAfford(t.variant, t.settings, balance) {
		t.sendBuyInInfo(p)
	}
	t.maybeScheduleHand()
	return nil
}

// RemovePlayer unseats a player. A player in the running hand is marked as
// leaving and removed once the hand is over; until then their turns are
// settled by timeouts.
func (t *Table) RemovePlayer(id string) error {
	p, ok := t.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if t.state == Playing && t.inHand(p) {
		p.Leaving = true
		t.logger.Info("player leaving after hand", "player", id)
		return nil
	}
	delete(t.players, id)
	t.logger.Info("player removed", "player", id)
	return nil
}

// Act submits a player action to the running hand.
func (t *Table) Act(a game.PlayerAction) error {
	if t.state != Playing || t.hand == nil {
		return game.ErrNoActiveHand
	}
	if err := t.hand.Act(a); err != nil {
		t.logger.Debug("action rejected", "action", a, "error", err)
		return err
	}
	return nil
}

// HandleTimeout processes a timeout the table or its hand scheduled.
func (t *Table) HandleTimeout(to game.Timeout) error {
	switch t.state {
	case Shutdown:
		return nil
	case WaitingToStart:
		if to.Kind != game.StartNewHand {
			return nil
		}
		if len(t.readyPlayers()) > 1 {
			t.startHand()
			return nil
		}
		t.logger.Info("not enough ready players to start")
		t.setState(NotStarted)
		return nil
	case Playing:
		if to.Kind == game.StartNewHand {
			return nil
		}
		return t.hand.HandleTimeout(to)
	}
	return nil
}

// StartHand starts a hand immediately, as tournament hosts do. It panics when
// fewer than two players are ready.
func (t *Table) StartHand() {
	if t.state == Shutdown {
		panic(fmt.Sprintf("table %s is shut down", t.id))
	}
	if t.state == Playing {
		panic(fmt.Sprintf("table %s is already playing", t.id))
	}
	t.startHand()
}

// SitOut marks a player as sitting out from the next hand on.
func (t *Table) SitOut(id string) error {
	p, ok := t.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	p.SitOutReason = game.SitOutRequested
	t.adapter.NotifyPlayerStatus(id, game.StatusSittingOut)
	return nil
}

// SitIn clears the sitting out status, including a missed ante or blind.
func (t *Table) SitIn(id string) error {
	p, ok := t.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if !game.CanAfford(t.variant, t.settings, p.Balance+p.PendingBalance) {
		t.sendBuyInInfo(p)
		return fmt.Errorf("%w: %s cannot cover the entry bet", ErrInvalidBuyIn, id)
	}
	p.SitOutReason = game.NotSittingOut
	t.adapter.NotifyPlayerStatus(id, game.StatusSittingIn)
	t.maybeScheduleHand()
	return nil
}

// SetAutoPostBlinds toggles posting blinds on the player's behalf.
func (t *Table) SetAutoPostBlinds(id string, on bool) error {
	p, ok := t.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	p.AutoPostBlinds = on
	return nil
}

// BuyIn adds chips to a player's balance. During a hand the chips are kept
// pending until the hand ends. The balance never exceeds the max buy-in.
func (t *Table) BuyIn(id string, amount int64) error {
	if t.state == Shutdown {
		return ErrShutdown
	}
	p, ok := t.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d", ErrInvalidBuyIn, amount)
	}
	total := p.Balance + p.PendingBalance
	allowed := t.settings.MaxBuyIn - total
	if allowed <= 0 {
		return fmt.Errorf("%w: balance %d already at max %d", ErrInvalidBuyIn, total, t.settings.MaxBuyIn)
	}
	if total+amount < t.settings.MinBuyIn {
		return fmt.Errorf("%w: %d is below min buy-in %d", ErrInvalidBuyIn, total+amount, t.settings.MinBuyIn)
	}
	amount = min(amount, allowed)
	p.PendingBalance += amount
	p.BuyInRequested = true
	if t.state == Playing && t.inHand(p) {
		t.logger.Debug("buy-in deferred until hand end", "player", id, "amount", amount)
		return nil
	}
	t.performPendingBuyIn(p)
	t.maybeScheduleHand()
	return nil
}

// Shutdown stops the table for good. Later state changes panic and later
// timeouts are ignored.
func (t *Table) Shutdown() {
	if t.hand != nil && !t.hand.Finished() {
		t.hand.Stop()
	}
	t.setState(Shutdown)
	t.logger.Info("table shut down")
}

func (t *Table) performPendingBuyIn(p *game.Player) {
	if p.PendingBalance == 0 {
		p.BuyInRequested = false
		return
	}
	p.Balance += p.PendingBalance
	t.logger.Info("buy-in performed", "player", p.ID, "amount", p.PendingBalance, "balance", p.Balance)
	p.PendingBalance = 0
	p.BuyInRequested = false
	if p.SitOutReason == game.NoMoney {
		p.SitOutReason = game.NotSittingOut
		t.adapter.NotifyPlayerStatus(p.ID, game.StatusSittingIn)
	}
	t.adapter.NotifyPlayerBalance(p.ID, p.Balance, 0)
}

func (t *Table) sendBuyInInfo(p *game.Player) {
	t.adapter.NotifyBuyInInfo(p.ID, game.BuyInInfo{
		Min:     max(0, t.settings.MinBuyIn-p.Balance),
		Max:     max(0, t.settings.MaxBuyIn-p.Balance),
		Balance: p.Balance,
	})
}

// readyPlayers are sitting in, not waiting on a buy-in and able to afford the
// entry level.
func (t *Table) readyPlayers() []*game.Player {
	var out []*game.Player
	for _, p := range t.Players() {
		if p.SittingOut() || p.BuyInRequested || p.Leaving {
			continue
		}
		if !game.CanAfford(t.variant, t.settings, p.Balance) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (t *Table) maybeScheduleHand() {
	if t.settings.Tournament || t.state != NotStarted {
		return
	}
	if len(t.readyPlayers()) < 2 {
		return
	}
	t.adapter.ScheduleTimeout(t.settings.Timing.NewHandDelay, game.Timeout{Kind: game.StartNewHand})
	t.setState(WaitingToStart)
}

func (t *Table) inHand(p *game.Player) bool {
	return slices.Contains(t.roster, p)
}

func (t *Table) nextDealer(roster []*game.Player) int {
	for _, p := range roster {
		if p.Seat > t.dealerSeat {
			return p.Seat
		}
	}
	return roster[0].Seat
}

func (t *Table) startHand() {
	roster := t.readyPlayers()
	if len(roster) < 2 {
		panic("not enough players")
	}
	t.setState(Playing)
	t.hands++
	t.roster = roster
	t.dealerSeat = t.nextDealer(roster)

	cfg := game.HandConfig{
		ID:         t.ids.Generate(),
		Variant:    t.variant,
		Settings:   t.settings,
		Players:    roster,
		DealerSeat: t.dealerSeat,
		Adapter:    t.adapter,
		Logger:     t.logger,
		Rand:       t.rng,
		OnFinished: t.handFinished,
	}
	if t.deckFactory != nil {
		cfg.Deck = t.deckFactory(len(roster))
	}
	t.hand = game.NewHand(cfg)

	info := game.HandInfo{HandID: cfg.ID, DealerSeat: t.dealerSeat, Variant: t.variant.Name()}
	for _, p := range roster {
		info.Players = append(info.Players, game.SeatInfo{PlayerID: p.ID, Seat: p.Seat, Balance: p.Balance})
	}
	t.adapter.NotifyNewHand(info)
	for _, p := range t.Players() {
		t.adapter.NotifyPlayerBalance(p.ID, p.Balance, 0)
		status := game.StatusSittingIn
		if !t.inHand(p) {
			status = game.StatusSittingOut
		}
		t.adapter.NotifyPlayerStatus(p.ID, status)
	}
	if err := t.hand.Start(); err != nil {
		t.logger.Error("hand start failed", "error", err)
	}
}

// handFinished awards the pots and prepares the table for the next hand.
func (t *Table) handFinished(result *game.HandResult, status game.HandEndStatus) {
	for id, r := range result.Results {
		if p, ok := t.players[id]; ok {
			p.Balance += r.WinningsIncludingOwnBets
		}
	}
	t.adapter.NotifyHandEnd(result, status)
	if t.state == Shutdown {
		return
	}

	if t.settings.Tournament {
		report := game.TournamentReport{HandID: result.HandID, Balances: map[string]int64{}}
		for _, p := range t.Players() {
			report.Balances[p.ID] = p.Balance
		}
		t.adapter.ReportTournamentRound(report)
		t.roster = nil
		t.setState(WaitingToStart)
		return
	}

	for _, p := range t.Players() {
		t.adapter.NotifyPlayerBalance(p.ID, p.Balance, 0)
	}
	t.roster = nil
	for _, p := range t.Players() {
		if p.BuyInRequested {
			t.performPendingBuyIn(p)
		}
	}
	for _, p := range t.Players() {
		if p.Leaving {
			delete(t.players, p.ID)
			t.logger.Info("player removed", "player", p.ID)
			continue
		}
		if !game.CanAfford(t.variant, t.settings, p.Balance) {
			if !p.SittingOut() {
				p.SitOutReason = game.NoMoney
				t.adapter.NotifyPlayerStatus(p.ID, game.StatusSittingOut)
			}
			t.sendBuyInInfo(p)
		}
	}
	t.adapter.ScheduleTimeout(t.settings.Timing.NewHandDelay, game.Timeout{Kind: game.StartNewHand})
	t.setState(WaitingToStart)
}
