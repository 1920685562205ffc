package game_test

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/evaluator"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/game/gametest"
	"github.com/lox/pokertable/internal/pot"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handFixture struct {
	hand    *game.Hand
	rec     *gametest.Recorder
	players []*game.Player
	result  *game.HandResult
	status  game.HandEndStatus
}

func newPlayers(balances ...int64) []*game.Player {
	players := make([]*game.Player, len(balances))
	for i, b := range balances {
		players[i] = &game.Player{ID: string(rune('a' + i)), Seat: i, Balance: b}
	}
	return players
}

func newHand(t *testing.T, settings game.Settings, players []*game.Player, d *deck.Deck) *handFixture {
	t.Helper()
	f := &handFixture{rec: gametest.New(), players: players}
	f.hand = game.NewHand(game.HandConfig{
		ID:         "hand-1",
		Settings:   settings,
		Players:    players,
		DealerSeat: 0,
		Adapter:    f.rec,
		Logger:     log.New(io.Discard),
		Rand:       randutil.New(1),
		Deck:       d,
		OnFinished: func(r *game.HandResult, s game.HandEndStatus) {
			f.result, f.status = r, s
			for id, pr := range r.Results {
				for _, p := range players {
					if p.ID == id {
						p.Balance += pr.WinningsIncludingOwnBets
					}
				}
			}
		},
	})
	require.NoError(t, f.hand.Start())
	return f
}

func (f *handFixture) act(t *testing.T, id string, a game.ActionType, amount ...int64) {
	t.Helper()
	pa := game.PlayerAction{PlayerID: id, Type: a}
	if len(amount) > 0 {
		pa.Amount = amount[0]
	}
	require.NoError(t, f.hand.Act(pa))
}

func (f *handFixture) nextRound(t *testing.T) {
	t.Helper()
	require.NoError(t, f.hand.HandleTimeout(game.Timeout{Kind: game.RoundTimeout}))
}

func (f *handFixture) expectRequest(t *testing.T, id string, a game.ActionType) game.ActionRequest {
	t.Helper()
	req := f.rec.LastRequest()
	require.Equal(t, id, req.PlayerID)
	require.True(t, req.Allows(a), "%s not offered to %s: %v", a, id, req.Options)
	return req
}

func (f *handFixture) balances() int64 {
	var total int64
	for _, p := range f.players {
		total += p.Balance + p.BetStack
	}
	return total
}

func TestWalkToBigBlind(t *testing.T) {
	t.Parallel()

	settings := game.DefaultSettings()
	settings.Rake = pot.LinearRake{Fraction: decimal.RequireFromString("0.05")}
	players := newPlayers(10000, 10000, 10000, 10000)
	f := newHand(t, settings, players, nil)

	f.expectRequest(t, "b", game.SmallBlind)
	f.act(t, "b", game.SmallBlind)
	f.expectRequest(t, "c", game.BigBlind)
	f.act(t, "c", game.BigBlind)

	f.expectRequest(t, "d", game.Fold)
	f.act(t, "d", game.Fold)
	f.act(t, "a", game.Fold)
	f.act(t, "b", game.Fold)

	require.True(t, f.hand.Finished())
	require.Equal(t, game.HandEndNormal, f.status)
	assert.Equal(t, int64(0), f.result.Rake.Total, "a walk is not raked")
	assert.Equal(t, int64(10050), players[2].Balance)
	assert.Equal(t, int64(9950), players[1].Balance)
	assert.Equal(t, int64(10000), players[0].Balance)
	assert.Equal(t, int64(10000), players[3].Balance)
	assert.Equal(t, int64(50), f.result.Results["c"].Net())
	assert.Empty(t, f.result.RevealOrder)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, f.result.Mucking)
}

func TestCheckDownToShowdown(t *testing.T) {
	t.Parallel()

	settings := game.DefaultSettings()
	settings.Rake = pot.LinearRake{Fraction: decimal.RequireFromString("0.1")}
	rigged := deck.NewRigged(deck.MustParseCards("As Ks 2d 7c Qs Js Ts 4d 2c"))
	players := newPlayers(1000, 1000)
	f := newHand(t, settings, players, rigged)

	// heads-up the dealer posts the small blind
	f.act(t, "a", game.SmallBlind)
	f.act(t, "b", game.BigBlind)
	assert.Equal(t, "As Ks", deck.FormatCards(f.rec.Private("b")))

	f.expectRequest(t, "a", game.Call)
	f.act(t, "a", game.Call)
	f.expectRequest(t, "b", game.Check)
	f.act(t, "b", game.Check)

	for street := 0; street < 3; street++ {
		f.nextRound(t)
		f.act(t, "b", game.Check)
		f.act(t, "a", game.Check)
	}

	require.True(t, f.hand.Finished())
	assert.Equal(t, "Qs Js Ts 4d 2c", deck.FormatCards(f.result.Community))
	assert.Equal(t, []string{"b", "a"}, f.result.RevealOrder)
	assert.Equal(t, int64(20), f.result.Rake.Total)
	assert.Equal(t, int64(180), f.result.Results["b"].WinningsIncludingOwnBets)
	assert.Equal(t, int64(1080), players[1].Balance)
	assert.Equal(t, int64(900), players[0].Balance)
	require.Len(t, f.result.RatedHands, 2)
	for _, rh := range f.result.RatedHands {
		if rh.PlayerID == "b" {
			assert.Equal(t, evaluator.RoyalStraightFlush, rh.Hand.Category)
		}
	}
	for _, tr := range f.result.Transitions {
		assert.Equal(t, "hand-1", tr.HandID)
	}
}

func TestLastAggressorRevealsFirst(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, nil)

	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	f.act(t, "a", game.Call)
	f.act(t, "b", game.Call)
	f.act(t, "c", game.Check)
	for street := 0; street < 2; street++ {
		f.nextRound(t)
		f.act(t, "b", game.Check)
		f.act(t, "c", game.Check)
		f.act(t, "a", game.Check)
	}
	f.nextRound(t)
	f.act(t, "b", game.Check)
	f.act(t, "c", game.Bet, 100)
	f.act(t, "a", game.Call)
	f.act(t, "b", game.Call)

	require.True(t, f.hand.Finished())
	assert.Equal(t, []string{"c", "b", "a"}, f.result.RevealOrder)
	assert.Equal(t, int64(3000), f.balances())
}

func TestIllegalActionsAreRejected(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)

	err := f.hand.Act(game.PlayerAction{PlayerID: "b", Type: game.Call})
	require.ErrorIs(t, err, game.ErrNotYourTurn)

	err = f.hand.Act(game.PlayerAction{PlayerID: "a", Type: game.Check})
	require.ErrorIs(t, err, game.ErrIllegalAction)

	req := f.expectRequest(t, "a", game.Raise)
	raise, _ := req.Option(game.Raise)
	assert.Equal(t, int64(200), raise.Min)
	assert.Equal(t, int64(1000), raise.Max)
	err = f.hand.Act(game.PlayerAction{PlayerID: "a", Type: game.Raise, Amount: 150})
	require.ErrorIs(t, err, game.ErrIllegalAction)

	assert.Equal(t, int64(1000), players[0].Balance, "rejected actions leave balances alone")
	assert.Equal(t, req, f.rec.LastRequest(), "no new request after a rejection")
	f.act(t, "a", game.Raise, 300)
}

func TestRaiseDisabledAgainstAllIn(t *testing.T) {
	t.Parallel()

	players := newPlayers(10000, 300)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "a", game.SmallBlind)
	f.act(t, "b", game.BigBlind)
	f.act(t, "a", game.Raise, 1000)

	req := f.expectRequest(t, "b", game.Call)
	assert.False(t, req.Allows(game.Raise))
	call, _ := req.Option(game.Call)
	assert.Equal(t, int64(200), call.Min)
	f.act(t, "b", game.Call)

	// the board runs out without further requests
	for street := 0; street < 3; street++ {
		f.nextRound(t)
	}
	require.True(t, f.hand.Finished())
	assert.Len(t, f.result.Community, 5)
	assert.Equal(t, int64(10300), f.balances())

	returned := f.rec.PotUpdates()[0].Returned
	assert.Equal(t, int64(700), returned["a"])
}

func TestShortAllInDoesNotReopenRaising(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000, 180)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	f.act(t, "a", game.Call)
	f.act(t, "b", game.Call)

	req := f.expectRequest(t, "c", game.Raise)
	raise, _ := req.Option(game.Raise)
	assert.Equal(t, int64(180), raise.Max)
	f.act(t, "c", game.Raise, 180)

	for _, id := range []string{"a", "b"} {
		req = f.expectRequest(t, id, game.Call)
		assert.False(t, req.Allows(game.Raise), "%s already acted and faces a short raise", id)
		call, _ := req.Option(game.Call)
		assert.Equal(t, int64(80), call.Min)
		f.act(t, id, game.Call)
	}

	assert.Len(t, f.hand.Community(), 3, "preflop closes once the short raise is called")
	assert.Equal(t, int64(820), players[0].Balance)
	assert.Equal(t, int64(820), players[1].Balance)
}

func TestAggressorSurvivesAllInRunout(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "a", game.SmallBlind)
	f.act(t, "b", game.BigBlind)
	f.act(t, "a", game.Call)
	f.act(t, "b", game.Check)

	f.nextRound(t)
	f.act(t, "b", game.Check)
	f.act(t, "a", game.Bet, 900)
	f.act(t, "b", game.Call)

	// turn and river have no betting
	for street := 0; street < 2; street++ {
		f.nextRound(t)
	}
	require.True(t, f.hand.Finished())
	assert.Equal(t, []string{"a", "b"}, f.result.RevealOrder)
	assert.Equal(t, int64(2000), f.balances())
}

func TestTimeoutChecksOrFolds(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)

	req := f.expectRequest(t, "a", game.Fold)
	stale := game.Timeout{Kind: game.PlayerTimeout, PlayerID: "a", Seq: req.Seq - 1}
	require.NoError(t, f.hand.HandleTimeout(stale))
	assert.Equal(t, req, f.rec.LastRequest(), "stale timeout is ignored")

	require.NoError(t, f.hand.HandleTimeout(game.Timeout{Kind: game.PlayerTimeout, PlayerID: "a", Seq: req.Seq}))
	last := f.rec.Performed()[len(f.rec.Performed())-1]
	assert.Equal(t, game.Fold, last.Type)
	assert.True(t, last.TimedOut)

	f.act(t, "b", game.Call)
	req = f.expectRequest(t, "c", game.Check)
	require.NoError(t, f.hand.HandleTimeout(game.Timeout{Kind: game.PlayerTimeout, PlayerID: "c", Seq: req.Seq}))
	last = f.rec.Performed()[len(f.rec.Performed())-1]
	assert.Equal(t, game.Check, last.Type)
}

func TestTwoConsecutiveTimeoutsFinishRound(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	f.act(t, "a", game.Call)
	f.act(t, "b", game.Call)
	f.act(t, "c", game.Check)
	f.nextRound(t)

	for i := 0; i < 2; i++ {
		req := f.rec.LastRequest()
		require.NoError(t, f.hand.HandleTimeout(game.Timeout{Kind: game.PlayerTimeout, PlayerID: req.PlayerID, Seq: req.Seq}))
	}

	turn, ok := f.rec.LastScheduled(game.RoundTimeout)
	require.True(t, ok)
	assert.Equal(t, game.DefaultTiming().CommunityDelay, turn.After)
	assert.Len(t, f.hand.Community(), 4, "turn is dealt once the flop round ends")
	f.nextRound(t)
	f.expectRequest(t, "b", game.Check)
}

func TestDeclinedBlindSitsPlayerOut(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "b", game.DeclineEntryBet)

	assert.Equal(t, game.MissedBlind, players[1].SitOutReason)
	status, _ := f.rec.Status("b")
	assert.Equal(t, game.StatusSittingOut, status)

	f.expectRequest(t, "c", game.SmallBlind)
	f.act(t, "c", game.SmallBlind)
	f.expectRequest(t, "a", game.BigBlind)
	f.act(t, "a", game.BigBlind)
	f.expectRequest(t, "c", game.Call)
}

func TestHandCanceledWhenBlindsMissing(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, nil)
	f.act(t, "a", game.SmallBlind)
	req := f.expectRequest(t, "b", game.BigBlind)
	require.NoError(t, f.hand.HandleTimeout(game.Timeout{Kind: game.PlayerTimeout, PlayerID: "b", Seq: req.Seq}))

	require.True(t, f.hand.Finished())
	assert.Equal(t, game.HandEndCanceledTooFewPlayers, f.status)
	assert.Empty(t, f.result.Results)
	assert.Equal(t, int64(1000), players[0].Balance, "posted blind is returned")
}

func TestAutoPostBlind(t *testing.T) {
	t.Parallel()

	players := newPlayers(1000, 1000, 1000)
	players[1].AutoPostBlinds = true
	f := newHand(t, game.DefaultSettings(), players, nil)

	s, ok := f.rec.LastScheduled(game.AutoPostBlind)
	require.True(t, ok)
	assert.Equal(t, "b", s.Timeout.PlayerID)
	require.NoError(t, f.hand.HandleTimeout(s.Timeout))
	assert.Equal(t, int64(50), players[1].BetStack)
	f.expectRequest(t, "c", game.BigBlind)
}

func TestSidePotsAwardedSeparately(t *testing.T) {
	t.Parallel()

	// a is the short stack with the best hand, b beats c for the side pot
	rigged := deck.NewRigged(deck.MustParseCards("Kh Kd Qh Qd Ah Ad 2c 7s 9d 3h 4s"))
	players := newPlayers(200, 1000, 1000)
	f := newHand(t, game.DefaultSettings(), players, rigged)
	// deal order b, c, a
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	f.act(t, "a", game.Raise, 200)
	f.act(t, "b", game.Raise, 600)
	f.act(t, "c", game.Call)
	for street := 0; street < 3; street++ {
		f.nextRound(t)
		f.act(t, "b", game.Check)
		f.act(t, "c", game.Check)
	}

	require.True(t, f.hand.Finished())
	require.Len(t, f.result.Pots, 2)
	assert.Equal(t, pot.Main, f.result.Pots[0].Type)
	assert.Equal(t, int64(600), f.result.Pots[0].Size)
	assert.Equal(t, int64(800), f.result.Pots[1].Size)
	assert.Equal(t, int64(600), f.result.Results["a"].WinningsIncludingOwnBets)
	assert.Equal(t, int64(800), f.result.Results["b"].WinningsIncludingOwnBets)
	assert.Equal(t, int64(2200), f.balances())
}

func TestTelesinaHand(t *testing.T) {
	t.Parallel()

	settings := game.DefaultSettings()
	settings.Ante = 10
	players := newPlayers(500, 500, 500)
	f := &handFixture{rec: gametest.New(), players: players}
	f.hand = game.NewHand(game.HandConfig{
		ID:       "t-1",
		Variant:  game.Telesina{},
		Settings: settings,
		Players:  players,
		Adapter:  f.rec,
		Logger:   log.New(io.Discard),
		Rand:     randutil.New(3),
		OnFinished: func(r *game.HandResult, s game.HandEndStatus) {
			f.result, f.status = r, s
		},
	})
	require.NoError(t, f.hand.Start())

	size, lowest := f.rec.Deck()
	assert.Equal(t, 28, size)
	assert.Equal(t, deck.Eight, lowest)

	reqs := f.rec.Requests()
	require.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.True(t, r.Allows(game.Ante))
		f.act(t, r.PlayerID, game.Ante)
	}

	f.nextRound(t)
	for _, p := range players {
		assert.Len(t, f.rec.Private(p.ID), 1)
		assert.Len(t, f.rec.Exposed(p.ID), 1)
	}

	for round := 0; round < 4; round++ {
		if round > 0 {
			f.nextRound(t)
		}
		f.act(t, "b", game.Check)
		f.act(t, "c", game.Check)
		f.act(t, "a", game.Check)
	}

	require.True(t, f.hand.Finished())
	assert.Len(t, f.result.Community, 1)
	for _, rh := range f.result.RatedHands {
		assert.Len(t, rh.Cards, 5)
		assert.True(t, rh.Hand.Ranked())
	}
	assert.Equal(t, int64(30), f.result.TotalWinnings())
}

func TestTelesinaMissedAnteCancelsHand(t *testing.T) {
	t.Parallel()

	settings := game.DefaultSettings()
	players := newPlayers(500, 500)
	var status game.HandEndStatus
	rec := gametest.New()
	h := game.NewHand(game.HandConfig{
		ID: "t-2", Variant: game.Telesina{}, Settings: settings, Players: players,
		Adapter: rec, Logger: log.New(io.Discard), Rand: randutil.New(3),
		OnFinished: func(_ *game.HandResult, s game.HandEndStatus) { status = s },
	})
	require.NoError(t, h.Start())

	reqs := rec.Requests()
	require.NoError(t, h.Act(game.PlayerAction{PlayerID: reqs[0].PlayerID, Type: game.Ante}))
	require.NoError(t, h.HandleTimeout(game.Timeout{Kind: game.PlayerTimeout, PlayerID: reqs[1].PlayerID, Seq: reqs[1].Seq}))

	require.True(t, h.Finished())
	assert.Equal(t, game.HandEndCanceledTooFewPlayers, status)
	assert.Equal(t, game.MissedAnte, players[0].SitOutReason+players[1].SitOutReason)
	assert.Equal(t, int64(1000), players[0].Balance+players[1].Balance)
}

func TestUnsupportedRounds(t *testing.T) {
	t.Parallel()

	_, err := game.TexasHoldem{}.Next(nil, game.Telesina{}.FirstRound())
	require.ErrorIs(t, err, game.ErrUnsupportedRound)

	_, err = game.Telesina{}.Next(nil, game.TexasHoldem{}.FirstRound())
	require.ErrorIs(t, err, game.ErrUnsupportedRound)
}

func TestNewHandRequiresTwoPlayers(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "not enough players", func() {
		game.NewHand(game.HandConfig{Players: newPlayers(100), Rand: randutil.New(1)})
	})
}

func TestCanAffordEntryLevel(t *testing.T) {
	t.Parallel()

	settings := game.DefaultSettings()
	settings.Ante = 40
	settings.BigBlind = 200
	settings.SmallBlind = 100

	tests := []struct {
		name    string
		variant game.Variant
		entry   int64
		balance int64
		want    bool
	}{
		{"holdem covers big blind", game.TexasHoldem{}, 0, 200, true},
		{"holdem below big blind", game.TexasHoldem{}, 0, 199, false},
		{"telesina covers ante", game.Telesina{}, 0, 40, true},
		{"telesina below ante", game.Telesina{}, 0, 39, false},
		{"entry bet overrides", game.TexasHoldem{}, 500, 400, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := settings
			s.EntryBet = tt.entry
			assert.Equal(t, tt.want, game.CanAfford(tt.variant, s, tt.balance))
		})
	}
}
