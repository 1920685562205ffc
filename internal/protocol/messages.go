// Package protocol defines the table events a host sends to players. Each
// message carries its type name so cached payloads can be decoded without
// outside context.
package protocol

// Server -> player messages
const (
	TypeHandStart          = "hand_start"
	TypeDealerButton       = "dealer_button"
	TypeDeckInfo           = "deck_info"
	TypeNewRound           = "new_round"
	TypeCommunityCards     = "community_cards"
	TypePrivateCards       = "private_cards"
	TypeExposedCards       = "exposed_cards"
	TypeShowdown           = "showdown"
	TypeRevealOrder        = "reveal_order"
	TypePlayerAction       = "player_action"
	TypeActionRequest      = "action_request"
	TypePotUpdate          = "pot_update"
	TypePlayerBalance      = "player_balance"
	TypePlayerStatus       = "player_status"
	TypeHandResult         = "hand_result"
	TypeBuyInInfo          = "buy_in_info"
	TypePlayerDisconnected = "player_disconnected"
	TypeHistoryStart       = "history_start"
	TypeHistoryStop        = "history_stop"
)

// Player info in a hand
type Player struct {
	ID      string `json:"id"`
	Seat    int    `json:"seat"`
	Balance int64  `json:"balance"`
}

// HandStart is sent when a new hand begins
type HandStart struct {
	Type    string   `json:"type"`
	HandID  string   `json:"hand_id"`
	Variant string   `json:"variant"`
	Button  int      `json:"button"`
	Players []Player `json:"players"`
}

type DealerButton struct {
	Type string `json:"type"`
	Seat int    `json:"seat"`
}

// DeckInfo tells clients which ranks the deck holds.
type DeckInfo struct {
	Type       string `json:"type"`
	Size       int    `json:"size"`
	LowestRank string `json:"lowest_rank"`
}

type NewRound struct {
	Type  string `json:"type"`
	Round string `json:"round"`
}

type CommunityCards struct {
	Type  string   `json:"type"`
	Cards []string `json:"cards"`
}

// PrivateCards deals pocket cards. Hidden copies sent to the other players
// carry only the count.
type PrivateCards struct {
	Type     string   `json:"type"`
	PlayerID string   `json:"player_id"`
	Cards    []string `json:"cards,omitempty"`
	Hidden   int      `json:"hidden,omitempty"`
}

// ExposedCards are pocket cards dealt face up
type ExposedCards struct {
	Type     string   `json:"type"`
	PlayerID string   `json:"player_id"`
	Cards    []string `json:"cards"`
}

// Showdown exposes the pocket cards of the players left at showdown
type Showdown struct {
	Type  string         `json:"type"`
	Hands []ShowdownHand `json:"hands"`
}

type ShowdownHand struct {
	PlayerID string   `json:"player_id"`
	Cards    []string `json:"cards"`
}

type RevealOrder struct {
	Type    string   `json:"type"`
	Players []string `json:"players"`
}

// PlayerAction is broadcast after each accepted action, including blinds and
// timeouts
type PlayerAction struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Action   string `json:"action"`
	Amount   int64  `json:"amount"`
	Paid     int64  `json:"paid"`
	BetStack int64  `json:"bet_stack"`
	Balance  int64  `json:"balance"`
	AllIn    bool   `json:"all_in,omitempty"`
	TimedOut bool   `json:"timed_out,omitempty"`
}

// Option is one legal choice of an action request
type Option struct {
	Action string `json:"action"`
	Min    int64  `json:"min,omitempty"`
	Max    int64  `json:"max,omitempty"`
}

// ActionRequest asks a player to act. Every player sees whose turn it is.
type ActionRequest struct {
	Type      string   `json:"type"`
	PlayerID  string   `json:"player_id"`
	Seq       int      `json:"seq"`
	Options   []Option `json:"options"`
	TimeToAct int64    `json:"time_to_act_ms"`
	Pot       int64    `json:"pot"`
}

// Allows reports whether the request offers the named action.
func (r *ActionRequest) Allows(action string) bool {
	for _, o := range r.Options {
		if o.Action == action {
			return true
		}
	}
	return false
}

type Pot struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type Transition struct {
	PlayerID string `json:"player_id"`
	PotID    int    `json:"pot_id"`
	Amount   int64  `json:"amount"`
}

// PotUpdate is sent after bets were collected into the pots
type PotUpdate struct {
	Type        string           `json:"type"`
	HandID      string           `json:"hand_id"`
	Pots        []Pot            `json:"pots"`
	Transitions []Transition     `json:"transitions,omitempty"`
	Returned    map[string]int64 `json:"returned,omitempty"`
}

type PlayerBalance struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Balance  int64  `json:"balance"`
	BetStack int64  `json:"bet_stack"`
}

type PlayerStatus struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
}

// HandResult is sent at hand completion
type HandResult struct {
	Type     string   `json:"type"`
	HandID   string   `json:"hand_id"`
	Status   string   `json:"status"`
	Winners  []Winner `json:"winners,omitempty"`
	Board    []string `json:"board,omitempty"`
	Rake     int64    `json:"rake"`
	Mucking  []string `json:"mucking,omitempty"`
	Showdown []Rated  `json:"showdown,omitempty"`
}

// Winner info
type Winner struct {
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
	Net      int64  `json:"net"`
}

// Rated is a hand shown down with its evaluated category
type Rated struct {
	PlayerID string   `json:"player_id"`
	Cards    []string `json:"cards"`
	Category string   `json:"category"`
	Describe string   `json:"describe"`
}

type BuyInInfo struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Balance  int64  `json:"balance"`
}

// PlayerDisconnected tells the table a player dropped and how long their
// timebank lasts.
type PlayerDisconnected struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Timebank int64  `json:"timebank_ms"`
}

// HistoryStart and HistoryStop frame a replay
type HistoryStart struct {
	Type string `json:"type"`
}

type HistoryStop struct {
	Type string `json:"type"`
}
