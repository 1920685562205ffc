package game

import (
	"time"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/pot"
)

// HandInfo announces a new hand.
type HandInfo struct {
	HandID     string
	DealerSeat int
	Variant    string
	Players    []SeatInfo
}

// SeatInfo is a participant snapshot at hand start.
type SeatInfo struct {
	PlayerID string
	Seat     int
	Balance  int64
}

// ExposedCards are pocket cards shown to the whole table.
type ExposedCards struct {
	PlayerID string
	Cards    []deck.Card
}

// PotUpdate is sent after chips moved into the pots.
type PotUpdate struct {
	Pots        []pot.Pot
	Transitions []pot.Transition
	Returned    map[string]int64
	Rake        pot.Rake
}

// BuyInInfo tells a player how much they may buy in for.
type BuyInInfo struct {
	Min     int64
	Max     int64
	Balance int64
}

// TournamentReport carries player balances after a tournament hand.
type TournamentReport struct {
	HandID   string
	Balances map[string]int64
}

// Adapter is the notification sink and scheduler the engine talks to. The
// host implements it and is responsible for transport and persistence.
// Calls are made in the order events happen.
type Adapter interface {
	NotifyNewHand(info HandInfo)
	NotifyDealerButton(seat int)
	NotifyDeckInfo(size int, lowest deck.Rank)
	NotifyNewRound(kind RoundKind)
	NotifyCommunityCards(cards []deck.Card)
	// NotifyPrivateCards deals cards only the owner may see.
	NotifyPrivateCards(playerID string, cards []deck.Card)
	// NotifyExposedPocketCards deals pocket cards visible to everyone.
	NotifyExposedPocketCards(playerID string, cards []deck.Card)
	ExposePrivateCards(cards []ExposedCards)
	NotifyRevealOrder(playerIDs []string)
	NotifyActionPerformed(action PerformedAction)
	RequestAction(req ActionRequest)
	RequestMultipleActions(reqs []ActionRequest)
	NotifyPotUpdates(update PotUpdate)
	NotifyPlayerBalance(playerID string, balance, betStack int64)
	NotifyPlayerStatus(playerID string, status PlayerStatus)
	NotifyHandEnd(result *HandResult, status HandEndStatus)
	NotifyBuyInInfo(playerID string, info BuyInInfo)
	ReportTournamentRound(report TournamentReport)
	ScheduleTimeout(d time.Duration, t Timeout)
}
