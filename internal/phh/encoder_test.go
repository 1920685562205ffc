package phh_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/phh"
)

func TestFormatAction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		pos    int
		action game.PerformedAction
		want   string
		ok     bool
	}{
		{"fold", 0, performed(game.Fold, 0), "p1 f", true},
		{"check", 1, performed(game.Check, 0), "p2 cc", true},
		{"call", 3, performed(game.Call, 200), "p4 cc", true},
		{"bet", 1, performed(game.Bet, 400), "p2 cbr 400", true},
		{"raise", 0, performed(game.Raise, 1200), "p1 cbr 1200", true},
		{"small blind", 0, performed(game.SmallBlind, 50), "", false},
		{"big blind", 1, performed(game.BigBlind, 100), "", false},
		{"ante", 2, performed(game.Ante, 100), "", false},
		{"declined blind", 2, performed(game.DeclineEntryBet, 0), "# p3 decline_entry_bet", true},
		{"declined ante", 0, performed(game.DeclineAnte, 0), "# p1 decline_ante", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := phh.FormatAction(tt.pos, tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDealerActions(t *testing.T) {
	t.Parallel()
	cards := deck.MustParseCards("Ah Kh")
	assert.Equal(t, "d dh p1 AhKh", phh.DealHole(0, cards, false))
	assert.Equal(t, "d dh p3 ????", phh.DealHole(2, cards, true))
	assert.Equal(t, "d db QsJsTs", phh.DealBoard(deck.MustParseCards("Qs Js Ts")))
	assert.Equal(t, "p2 sm AhKh", phh.ShowCards(1, cards))
}

func TestEncodeHandHistory(t *testing.T) {
	t.Parallel()
	hand := sampleHand("hand-00042")

	var buf bytes.Buffer
	require.NoError(t, phh.Encode(&buf, hand))

	want := "" +
		"variant = \"NT\"\n" +
		"table = \"default\"\n" +
		"seat_count = 3\n" +
		"seats = [1, 2, 3]\n" +
		"antes = [0, 0, 0]\n" +
		"blinds_or_straddles = [1, 2, 0]\n" +
		"min_bet = 2\n" +
		"starting_stacks = [200, 200, 200]\n" +
		"finishing_stacks = [199, 198, 203]\n" +
		"winnings = [0, 0, 5]\n" +
		"actions = [\"d dh p1 AhKh\", \"d dh p2 7c2d\", \"d dh p3 QsJs\", \"p1 cbr 6\", \"p2 f\", \"p3 cc\"]\n" +
		"players = [\"alice\", \"bob\", \"charlie\"]\n" +
		"hand = \"hand-00042\"\n" +
		"time = \"15:22:00\"\n" +
		"time_zone = \"UTC\"\n" +
		"day = 14\n" +
		"month = 11\n" +
		"year = 2025\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeNil(t *testing.T) {
	t.Parallel()
	assert.Error(t, phh.Encode(&bytes.Buffer{}, nil))
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	hands := []*phh.HandHistory{sampleHand("a"), sampleHand("b")}

	var buf bytes.Buffer
	require.NoError(t, phh.EncodeSession(&buf, 9, hands))
	assert.Contains(t, buf.String(), "[9]\n")
	assert.Contains(t, buf.String(), "\n[10]\n")

	decoded, err := phh.DecodeSession(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "a", decoded[0].HandID)
	assert.Equal(t, "b", decoded[1].HandID)
	assert.Equal(t, hands[0].Actions, decoded[0].Actions)
	assert.Equal(t, []int64{199, 198, 203}, decoded[1].FinishingStacks)
}

func TestDecodeSessionRejectsUnnumberedSections(t *testing.T) {
	t.Parallel()
	_, err := phh.DecodeSession([]byte("[first]\nvariant = \"NT\"\n"))
	assert.ErrorContains(t, err, "not a number")
}

func sampleHand(id string) *phh.HandHistory {
	hand := &phh.HandHistory{
		Variant:           "NT",
		Table:             "default",
		SeatCount:         3,
		Seats:             []int{1, 2, 3},
		Antes:             []int64{0, 0, 0},
		BlindsOrStraddles: []int64{1, 2, 0},
		MinBet:            2,
		StartingStacks:    []int64{200, 200, 200},
		FinishingStacks:   []int64{199, 198, 203},
		Winnings:          []int64{0, 0, 5},
		Actions: []string{
			"d dh p1 AhKh",
			"d dh p2 7c2d",
			"d dh p3 QsJs",
			"p1 cbr 6",
			"p2 f",
			"p3 cc",
		},
		Players: []string{"alice", "bob", "charlie"},
		HandID:  id,
	}
	hand.SetTime(time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC))
	return hand
}

func performed(t game.ActionType, amount int64) game.PerformedAction {
	return game.PerformedAction{PlayerAction: game.PlayerAction{PlayerID: "x", Type: t, Amount: amount}}
}
