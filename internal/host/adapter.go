package host

import (
	"time"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/protocol"
)

var _ game.Adapter = (*Host)(nil)

// public broadcasts an event and caches it for replay.
func (h *Host) public(msg any, exclude string) {
	data, err := protocol.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding event", "error", err)
		return
	}
	h.outbox.Broadcast(data, exclude)
	if exclude == "" {
		h.cache.AddPublic(data)
	} else {
		h.cache.AddPublicExcluding(data, exclude)
	}
}

// private sends an event to one player and caches it for that player only.
func (h *Host) private(playerID string, msg any) {
	data, err := protocol.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding event", "player", playerID, "error", err)
		return
	}
	h.outbox.Send(playerID, data)
	h.cache.AddPrivate(playerID, data)
}

func (h *Host) NotifyNewHand(info game.HandInfo) {
	h.handID = info.HandID
	h.public(protocol.NewHandStart(info), "")
}

func (h *Host) NotifyDealerButton(seat int) {
	h.public(protocol.NewDealerButton(seat), "")
}

func (h *Host) NotifyDeckInfo(size int, lowest deck.Rank) {
	h.public(protocol.NewDeckInfo(size, lowest), "")
}

func (h *Host) NotifyNewRound(kind game.RoundKind) {
	h.public(protocol.NewNewRound(kind), "")
}

func (h *Host) NotifyCommunityCards(cards []deck.Card) {
	h.public(protocol.NewCommunityCards(cards), "")
}

// NotifyPrivateCards sends the cards to their owner and a face down copy to
// everyone else.
func (h *Host) NotifyPrivateCards(playerID string, cards []deck.Card) {
	h.private(playerID, protocol.NewPrivateCards(playerID, cards))
	h.public(protocol.NewHiddenCards(playerID, len(cards)), playerID)
}

func (h *Host) NotifyExposedPocketCards(playerID string, cards []deck.Card) {
	h.public(protocol.NewExposedCards(playerID, cards), "")
}

func (h *Host) ExposePrivateCards(cards []game.ExposedCards) {
	h.public(protocol.NewShowdown(cards), "")
}

func (h *Host) NotifyRevealOrder(playerIDs []string) {
	h.public(protocol.NewRevealOrder(playerIDs), "")
}

func (h *Host) NotifyActionPerformed(a game.PerformedAction) {
	h.cancelPlayerTimeout(a.PlayerID)
	h.public(protocol.NewPlayerAction(a), "")
}

// RequestAction broadcasts the request and arms the player timeout with the
// latency grace on top of the time to act.
func (h *Host) RequestAction(req game.ActionRequest) {
	h.public(protocol.NewActionRequest(req), "")
	h.armPlayerTimeout(req)
}

func (h *Host) RequestMultipleActions(reqs []game.ActionRequest) {
	for _, req := range reqs {
		h.public(protocol.NewActionRequest(req), "")
	}
	for _, req := range reqs {
		h.armPlayerTimeout(req)
	}
}

func (h *Host) armPlayerTimeout(req game.ActionRequest) {
	h.cancelPlayerTimeout(req.PlayerID)
	h.deadline[req.PlayerID] = h.clock.Now().Add(req.TimeToAct)
	h.playerTimer[req.PlayerID] = h.schedule(req.TimeToAct+h.timing.LatencyGrace, game.Timeout{
		Kind:     game.PlayerTimeout,
		PlayerID: req.PlayerID,
		Seq:      req.Seq,
	})
}

func (h *Host) NotifyPotUpdates(u game.PotUpdate) {
	h.public(protocol.NewPotUpdate(h.handID, u), "")
}

func (h *Host) NotifyPlayerBalance(playerID string, balance, betStack int64) {
	h.public(protocol.NewPlayerBalance(playerID, balance, betStack), "")
}

func (h *Host) NotifyPlayerStatus(playerID string, status game.PlayerStatus) {
	h.public(protocol.NewPlayerStatus(playerID, status), "")
}

// NotifyHandEnd publishes the result and drops the hand's replay log.
func (h *Host) NotifyHandEnd(result *game.HandResult, status game.HandEndStatus) {
	h.logger.Info("hand ended", "hand", result.HandID, "status", status, "rake", result.Rake.Total)
	data, err := protocol.Marshal(protocol.NewHandResult(result, status))
	if err != nil {
		h.logger.Error("encoding hand result", "error", err)
	} else {
		h.outbox.Broadcast(data, "")
	}
	h.cache.Clear()
	for id := range h.playerTimer {
		h.cancelPlayerTimeout(id)
	}
}

func (h *Host) NotifyBuyInInfo(playerID string, info game.BuyInInfo) {
	h.private(playerID, protocol.NewBuyInInfo(playerID, info))
}

func (h *Host) ReportTournamentRound(report game.TournamentReport) {
	h.cache.Clear()
	if h.onReport != nil {
		h.onReport(report)
	}
}

func (h *Host) ScheduleTimeout(d time.Duration, t game.Timeout) {
	h.schedule(d, t)
}
