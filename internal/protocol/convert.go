package protocol

import (
	"slices"
	"time"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
)

// Cards formats cards as strings like "As"
func Cards(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func NewHandStart(info game.HandInfo) *HandStart {
	m := &HandStart{Type: TypeHandStart, HandID: info.HandID, Variant: info.Variant, Button: info.DealerSeat}
	for _, p := range info.Players {
		m.Players = append(m.Players, Player{ID: p.PlayerID, Seat: p.Seat, Balance: p.Balance})
	}
	return m
}

func NewDealerButton(seat int) *DealerButton {
	return &DealerButton{Type: TypeDealerButton, Seat: seat}
}

func NewDeckInfo(size int, lowest deck.Rank) *DeckInfo {
	return &DeckInfo{Type: TypeDeckInfo, Size: size, LowestRank: lowest.Name()}
}

func NewNewRound(kind game.RoundKind) *NewRound {
	return &NewRound{Type: TypeNewRound, Round: kind.String()}
}

func NewCommunityCards(cards []deck.Card) *CommunityCards {
	return &CommunityCards{Type: TypeCommunityCards, Cards: Cards(cards)}
}

// NewPrivateCards returns the owner's copy of dealt pocket cards.
func NewPrivateCards(playerID string, cards []deck.Card) *PrivateCards {
	return &PrivateCards{Type: TypePrivateCards, PlayerID: playerID, Cards: Cards(cards)}
}

// NewHiddenCards returns the copy of dealt pocket cards everyone else sees.
func NewHiddenCards(playerID string, count int) *PrivateCards {
	return &PrivateCards{Type: TypePrivateCards, PlayerID: playerID, Hidden: count}
}

func NewExposedCards(playerID string, cards []deck.Card) *ExposedCards {
	return &ExposedCards{Type: TypeExposedCards, PlayerID: playerID, Cards: Cards(cards)}
}

func NewShowdown(exposed []game.ExposedCards) *Showdown {
	m := &Showdown{Type: TypeShowdown}
	for _, e := range exposed {
		m.Hands = append(m.Hands, ShowdownHand{PlayerID: e.PlayerID, Cards: Cards(e.Cards)})
	}
	return m
}

func NewRevealOrder(players []string) *RevealOrder {
	return &RevealOrder{Type: TypeRevealOrder, Players: slices.Clone(players)}
}

func NewPlayerAction(a game.PerformedAction) *PlayerAction {
	return &PlayerAction{
		Type:     TypePlayerAction,
		PlayerID: a.PlayerID,
		Action:   a.Type.String(),
		Amount:   a.Amount,
		Paid:     a.Paid,
		BetStack: a.BetStack,
		Balance:  a.Balance,
		AllIn:    a.AllIn,
		TimedOut: a.TimedOut,
	}
}

func NewActionRequest(req game.ActionRequest) *ActionRequest {
	m := &ActionRequest{
		Type:      TypeActionRequest,
		PlayerID:  req.PlayerID,
		Seq:       req.Seq,
		TimeToAct: req.TimeToAct.Milliseconds(),
		Pot:       req.TotalPot,
	}
	for _, o := range req.Options {
		m.Options = append(m.Options, Option{Action: o.Type.String(), Min: o.Min, Max: o.Max})
	}
	return m
}

// RequestAction converts a request back into the engine's type.
func (r *ActionRequest) RequestAction() (game.ActionRequest, error) {
	req := game.ActionRequest{
		PlayerID:  r.PlayerID,
		Seq:       r.Seq,
		TimeToAct: time.Duration(r.TimeToAct) * time.Millisecond,
		TotalPot:  r.Pot,
	}
	for _, o := range r.Options {
		t, err := game.ParseActionType(o.Action)
		if err != nil {
			return game.ActionRequest{}, err
		}
		req.Options = append(req.Options, game.PossibleAction{Type: t, Min: o.Min, Max: o.Max})
	}
	return req, nil
}

func NewPotUpdate(handID string, u game.PotUpdate) *PotUpdate {
	m := &PotUpdate{Type: TypePotUpdate, HandID: handID, Returned: u.Returned}
	for _, p := range u.Pots {
		m.Pots = append(m.Pots, Pot{ID: p.ID, Type: p.Type.String(), Size: p.Size})
	}
	for _, t := range u.Transitions {
		m.Transitions = append(m.Transitions, Transition{PlayerID: t.PlayerID, PotID: t.PotID, Amount: t.Amount})
	}
	return m
}

func NewPlayerBalance(playerID string, balance, betStack int64) *PlayerBalance {
	return &PlayerBalance{Type: TypePlayerBalance, PlayerID: playerID, Balance: balance, BetStack: betStack}
}

func NewPlayerStatus(playerID string, status game.PlayerStatus) *PlayerStatus {
	return &PlayerStatus{Type: TypePlayerStatus, PlayerID: playerID, Status: status.String()}
}

// NewHandResult lists winners by seat so every client renders the same order.
func NewHandResult(r *game.HandResult, status game.HandEndStatus) *HandResult {
	m := &HandResult{
		Type:    TypeHandResult,
		HandID:  r.HandID,
		Status:  status.String(),
		Board:   Cards(r.Community),
		Rake:    r.Rake.Total,
		Mucking: slices.Clone(r.Mucking),
	}
	results := make([]game.PlayerResult, 0, len(r.Results))
	for _, pr := range r.Results {
		results = append(results, pr)
	}
	slices.SortFunc(results, func(a, b game.PlayerResult) int { return a.Seat - b.Seat })
	for _, pr := range results {
		if pr.WinningsIncludingOwnBets > 0 {
			m.Winners = append(m.Winners, Winner{PlayerID: pr.PlayerID, Amount: pr.WinningsIncludingOwnBets, Net: pr.Net()})
		}
	}
	for _, rh := range r.RatedHands {
		m.Showdown = append(m.Showdown, Rated{
			PlayerID: rh.PlayerID,
			Cards:    Cards(rh.Cards),
			Category: rh.Hand.Category.String(),
			Describe: rh.Hand.Describe(),
		})
	}
	return m
}

func NewBuyInInfo(playerID string, info game.BuyInInfo) *BuyInInfo {
	return &BuyInInfo{Type: TypeBuyInInfo, PlayerID: playerID, Min: info.Min, Max: info.Max, Balance: info.Balance}
}

func NewPlayerDisconnected(playerID string, timebank time.Duration) *PlayerDisconnected {
	return &PlayerDisconnected{Type: TypePlayerDisconnected, PlayerID: playerID, Timebank: timebank.Milliseconds()}
}
