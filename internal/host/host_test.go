package host

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/protocol"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	to      string
	exclude string
	data    []byte
}

// outbox records deliveries in order
type outbox struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (o *outbox) Send(playerID string, data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliveries = append(o.deliveries, delivery{to: playerID, data: data})
}

func (o *outbox) Broadcast(data []byte, exclude string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliveries = append(o.deliveries, delivery{exclude: exclude, data: data})
}

// seenBy decodes everything playerID received
func (o *outbox) seenBy(t *testing.T, playerID string) []any {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []any
	for _, d := range o.deliveries {
		if d.to != "" && d.to != playerID || d.to == "" && d.exclude == playerID {
			continue
		}
		msg, err := protocol.Decode(d.data)
		require.NoError(t, err)
		out = append(out, msg)
	}
	return out
}

func lastRequest(t *testing.T, msgs []any) *protocol.ActionRequest {
	t.Helper()
	for i := len(msgs) - 1; i >= 0; i-- {
		if req, ok := msgs[i].(*protocol.ActionRequest); ok {
			return req
		}
	}
	t.Fatal("no action request")
	return nil
}

type fixture struct {
	host   *Host
	clock  *quartz.Mock
	outbox *outbox
	ctx    context.Context
	errc   chan error
}

func newFixture(t *testing.T, settings game.Settings) *fixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	f := &fixture{clock: quartz.NewMock(t), outbox: &outbox{}, ctx: ctx, errc: make(chan error, 1)}
	h, err := New(Config{
		TableID:  "t1",
		Settings: settings,
		Rand:     randutil.New(5),
		Clock:    f.clock,
		Logger:   log.New(io.Discard),
		Outbox:   f.outbox,
	})
	require.NoError(t, err)
	f.host = h
	go func() { f.errc <- h.Run(ctx) }()
	return f
}

func (f *fixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	f.clock.Advance(d).MustWait(f.ctx)
}

func (f *fixture) act(t *testing.T, id string, a game.ActionType) {
	t.Helper()
	require.NoError(t, f.host.Act(f.ctx, game.PlayerAction{PlayerID: id, Type: a}))
}

// started seats a, b and c and waits for the first hand.
func started(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, game.DefaultSettings())
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, f.host.AddPlayer(f.ctx, id, i, 10000))
	}
	state, err := f.host.State(f.ctx)
	require.NoError(t, err)
	require.Equal(t, table.WaitingToStart, state)

	f.advance(t, game.DefaultTiming().NewHandDelay)
	state, err = f.host.State(f.ctx)
	require.NoError(t, err)
	require.Equal(t, table.Playing, state)
	return f
}

func TestHostPlaysBlindsAndDealsPrivately(t *testing.T) {
	t.Parallel()

	f := started(t)
	req := lastRequest(t, f.outbox.seenBy(t, "a"))
	require.Equal(t, "b", req.PlayerID)
	assert.True(t, req.Allows("SMALL_BLIND"))

	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)

	var own, hidden int
	for _, msg := range f.outbox.seenBy(t, "a") {
		pc, ok := msg.(*protocol.PrivateCards)
		if !ok {
			continue
		}
		if pc.PlayerID == "a" {
			own++
			assert.Len(t, pc.Cards, 2)
		} else {
			hidden++
			assert.Empty(t, pc.Cards)
			assert.Equal(t, 2, pc.Hidden)
		}
	}
	assert.Equal(t, 1, own)
	assert.Equal(t, 2, hidden)
}

func TestHostPlayerTimeoutFolds(t *testing.T) {
	t.Parallel()

	f := started(t)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	require.Equal(t, "a", lastRequest(t, f.outbox.seenBy(t, "b")).PlayerID)

	timing := game.DefaultTiming()
	f.advance(t, timing.ActionTimeout+timing.LatencyGrace)

	msgs := f.outbox.seenBy(t, "b")
	var folded bool
	for _, msg := range msgs {
		if pa, ok := msg.(*protocol.PlayerAction); ok && pa.PlayerID == "a" {
			folded = pa.Action == "FOLD" && pa.TimedOut
		}
	}
	assert.True(t, folded, "a timed out and folded")
	assert.Equal(t, "b", lastRequest(t, msgs).PlayerID)
}

func TestHostReplay(t *testing.T) {
	t.Parallel()

	f := started(t)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	f.advance(t, 5*time.Second)

	decode := func(events [][]byte) []any {
		out := make([]any, len(events))
		for i, e := range events {
			msg, err := protocol.Decode(e)
			require.NoError(t, err)
			out[i] = msg
		}
		return out
	}

	forA := decode(f.host.Replay("a"))
	assert.IsType(t, &protocol.HistoryStart{}, forA[0])
	assert.IsType(t, &protocol.HistoryStop{}, forA[len(forA)-1])
	req := forA[len(forA)-2].(*protocol.ActionRequest)
	assert.Equal(t, "a", req.PlayerID)
	assert.Equal(t, int64(10000), req.TimeToAct)

	var requests int
	for _, msg := range forA {
		switch m := msg.(type) {
		case *protocol.ActionRequest:
			requests++
		case *protocol.PrivateCards:
			if m.PlayerID != "a" {
				assert.Empty(t, m.Cards, "other players' cards stay hidden")
			}
		}
	}
	assert.Equal(t, 1, requests, "answered blind requests are collapsed")

	require.NoError(t, f.host.Reconnect(f.ctx, "a"))
	o := f.outbox
	o.mu.Lock()
	last := o.deliveries[len(o.deliveries)-1]
	o.mu.Unlock()
	assert.Equal(t, "a", last.to)
}

func TestHostDisconnectCarriesTimebank(t *testing.T) {
	t.Parallel()

	f := started(t)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	f.advance(t, 5*time.Second)

	require.NoError(t, f.host.Disconnect(f.ctx, "a"))
	assert.ErrorIs(t, f.host.Disconnect(f.ctx, "zz"), table.ErrUnknownPlayer)

	msgs := f.outbox.seenBy(t, "b")
	notice := msgs[len(msgs)-1].(*protocol.PlayerDisconnected)
	assert.Equal(t, "a", notice.PlayerID)
	assert.Equal(t, int64(10000), notice.Timebank)

	f.advance(t, 2*time.Second)
	events := f.host.Replay("b")
	msg, err := protocol.Decode(events[len(events)-2])
	require.NoError(t, err)
	assert.Equal(t, int64(8000), msg.(*protocol.ActionRequest).TimeToAct)
}

func TestHostHandEndClearsCache(t *testing.T) {
	t.Parallel()

	f := started(t)
	f.act(t, "b", game.SmallBlind)
	f.act(t, "c", game.BigBlind)
	f.act(t, "a", game.Fold)
	f.act(t, "b", game.Fold)

	msgs := f.outbox.seenBy(t, "a")
	var result *protocol.HandResult
	for _, msg := range msgs {
		if r, ok := msg.(*protocol.HandResult); ok {
			result = r
		}
	}
	require.NotNil(t, result)
	assert.Equal(t, []protocol.Winner{{PlayerID: "c", Amount: 100, Net: 50}}, result.Winners)

	for _, e := range f.host.Replay("a") {
		typ, err := protocol.PeekType(e)
		require.NoError(t, err)
		assert.NotContains(t, []string{protocol.TypePlayerAction, protocol.TypePrivateCards, protocol.TypeActionRequest}, typ)
	}
}

func TestHostShutdown(t *testing.T) {
	t.Parallel()

	f := started(t)
	require.NoError(t, f.host.Shutdown(f.ctx))
	require.NoError(t, <-f.errc)
	assert.ErrorIs(t, f.host.Act(f.ctx, game.PlayerAction{PlayerID: "b", Type: game.SmallBlind}), ErrStopped)
	assert.Len(t, f.host.Replay("a"), 2)
}

func TestHostRecoversContractViolations(t *testing.T) {
	t.Parallel()

	settings := game.DefaultSettings()
	settings.Tournament = true
	f := newFixture(t, settings)
	require.NoError(t, f.host.AddPlayer(f.ctx, "a", 0, 10000))

	err := f.host.StartHand(f.ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough players")

	require.NoError(t, f.host.AddPlayer(f.ctx, "b", 1, 10000))
	require.NoError(t, f.host.StartHand(f.ctx))
}

func TestNewRequiresOutbox(t *testing.T) {
	t.Parallel()

	_, err := New(Config{TableID: "t", Settings: game.DefaultSettings(), Rand: randutil.New(1)})
	assert.Error(t, err)
}
