// Package gametest provides an in-memory game.Adapter for tests.
package gametest

import (
	"fmt"
	"sync"
	"time"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
)

// Scheduled is a timeout the engine asked the host to schedule.
type Scheduled struct {
	After   time.Duration
	Timeout game.Timeout
}

// Finished is a recorded hand end.
type Finished struct {
	Result *game.HandResult
	Status game.HandEndStatus
}

// Recorder records every notification. It is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	events      []string
	requests    []game.ActionRequest
	performed   []game.PerformedAction
	scheduled   []Scheduled
	finished    []Finished
	private     map[string][]deck.Card
	exposed     map[string][]deck.Card
	community   []deck.Card
	balances    map[string]int64
	statuses    map[string]game.PlayerStatus
	potUpdates  []game.PotUpdate
	buyInInfo   map[string]game.BuyInInfo
	reports     []game.TournamentReport
	revealOrder []string
	deckSize    int
	lowestRank  deck.Rank
}

var _ game.Adapter = (*Recorder)(nil)

// New creates an empty recorder
func New() *Recorder {
	return &Recorder{
		private:   map[string][]deck.Card{},
		exposed:   map[string][]deck.Card{},
		balances:  map[string]int64{},
		statuses:  map[string]game.PlayerStatus{},
		buyInInfo: map[string]game.BuyInInfo{},
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *Recorder) NotifyNewHand(info game.HandInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.private = map[string][]deck.Card{}
	r.exposed = map[string][]deck.Card{}
	r.community = nil
	r.revealOrder = nil
	r.record("new_hand %s", info.HandID)
}

func (r *Recorder) NotifyDealerButton(seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("dealer %d", seat)
}

func (r *Recorder) NotifyDeckInfo(size int, lowest deck.Rank) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deckSize, r.lowestRank = size, lowest
	r.record("deck %d %s", size, lowest)
}

func (r *Recorder) NotifyNewRound(kind game.RoundKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("round %s", kind)
}

func (r *Recorder) NotifyCommunityCards(cards []deck.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.community = append(r.community, cards...)
	r.record("community %s", deck.FormatCards(cards))
}

func (r *Recorder) NotifyPrivateCards(playerID string, cards []deck.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.private[playerID] = append(r.private[playerID], cards...)
	r.record("private %s", playerID)
}

func (r *Recorder) NotifyExposedPocketCards(playerID string, cards []deck.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exposed[playerID] = append(r.exposed[playerID], cards...)
	r.record("exposed %s %s", playerID, deck.FormatCards(cards))
}

func (r *Recorder) ExposePrivateCards(cards []game.ExposedCards) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cards {
		r.record("show %s %s", c.PlayerID, deck.FormatCards(c.Cards))
	}
}

func (r *Recorder) NotifyRevealOrder(playerIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revealOrder = playerIDs
	r.record("reveal_order %v", playerIDs)
}

func (r *Recorder) NotifyActionPerformed(a game.PerformedAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.performed = append(r.performed, a)
	r.record("performed %s", a.PlayerAction)
}

func (r *Recorder) RequestAction(req game.ActionRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	r.record("request %s %d", req.PlayerID, req.Seq)
}

func (r *Recorder) RequestMultipleActions(reqs []game.ActionRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, reqs...)
	r.record("request_multiple %d", len(reqs))
}

func (r *Recorder) NotifyPotUpdates(u game.PotUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.potUpdates = append(r.potUpdates, u)
	r.record("pots %d", len(u.Pots))
}

func (r *Recorder) NotifyPlayerBalance(playerID string, balance, betStack int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[playerID] = balance
}

func (r *Recorder) NotifyPlayerStatus(playerID string, status game.PlayerStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[playerID] = status
	r.record("status %s %s", playerID, status)
}

func (r *Recorder) NotifyHandEnd(result *game.HandResult, status game.HandEndStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, Finished{Result: result, Status: status})
	r.record("hand_end %s", status)
}

func (r *Recorder) NotifyBuyInInfo(playerID string, info game.BuyInInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buyInInfo[playerID] = info
	r.record("buy_in_info %s", playerID)
}

func (r *Recorder) ReportTournamentRound(report game.TournamentReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	r.record("tournament_report %s", report.HandID)
}

func (r *Recorder) ScheduleTimeout(d time.Duration, t game.Timeout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, Scheduled{After: d, Timeout: t})
	r.record("schedule %s %s", t.Kind, d)
}

// LastRequest returns the most recent action request. It fails the test
// helper contract by panicking when nothing was requested.
func (r *Recorder) LastRequest() game.ActionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		panic("gametest: no action requested")
	}
	return r.requests[len(r.requests)-1]
}

// Requests returns all recorded requests
func (r *Recorder) Requests() []game.ActionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.ActionRequest(nil), r.requests...)
}

// Performed returns all performed actions
func (r *Recorder) Performed() []game.PerformedAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.PerformedAction(nil), r.performed...)
}

// Scheduled returns all scheduled timeouts
func (r *Recorder) Scheduled() []Scheduled {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Scheduled(nil), r.scheduled...)
}

// LastScheduled returns the most recent scheduled timeout of the given kind.
func (r *Recorder) LastScheduled(kind game.TimeoutKind) (Scheduled, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.scheduled) - 1; i >= 0; i-- {
		if r.scheduled[i].Timeout.Kind == kind {
			return r.scheduled[i], true
		}
	}
	return Scheduled{}, false
}

// Finished returns all recorded hand ends
func (r *Recorder) Finished() []Finished {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Finished(nil), r.finished...)
}

// Events returns a readable log of notifications in emission order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Private returns the private cards dealt to a player in the current hand
func (r *Recorder) Private(playerID string) []deck.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.private[playerID]
}

// Exposed returns the exposed pocket cards of a player in the current hand
func (r *Recorder) Exposed(playerID string) []deck.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exposed[playerID]
}

// Community returns the community cards of the current hand
func (r *Recorder) Community() []deck.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.community
}

// Balance returns the last reported balance of a player
func (r *Recorder) Balance(playerID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[playerID]
}

// Status returns the last reported status of a player
func (r *Recorder) Status(playerID string) (game.PlayerStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.statuses[playerID]
	return s, ok
}

// PotUpdates returns every pot update
func (r *Recorder) PotUpdates() []game.PotUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.PotUpdate(nil), r.potUpdates...)
}

// BuyInInfo returns the buy-in info sent to a player
func (r *Recorder) BuyInInfo(playerID string) (game.BuyInInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.buyInInfo[playerID]
	return info, ok
}

// Reports returns the tournament reports
func (r *Recorder) Reports() []game.TournamentReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.TournamentReport(nil), r.reports...)
}

// RevealOrder returns the last reveal order
func (r *Recorder) RevealOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealOrder
}

// Deck returns the last deck info
func (r *Recorder) Deck() (int, deck.Rank) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deckSize, r.lowestRank
}
