package simulator

import (
	"slices"
	"time"

	"github.com/lox/pokertable/internal/deck"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/statistics"
)

var _ game.Adapter = (*driver)(nil)

func (d *driver) NotifyNewHand(info game.HandInfo) {
	d.logger.Debug("new hand", "hand", info.HandID, "dealer", info.DealerSeat, "players", len(info.Players))
	if d.history != nil {
		d.history.HandStarted(info)
	}
}

func (d *driver) NotifyCommunityCards(cards []deck.Card) {
	if d.history != nil {
		d.history.CommunityCards(cards)
	}
}

func (d *driver) NotifyPrivateCards(id string, cards []deck.Card) {
	if d.history != nil {
		d.history.PocketCards(id, cards, false)
	}
}

func (d *driver) NotifyExposedPocketCards(id string, cards []deck.Card) {
	if d.history != nil {
		d.history.PocketCards(id, cards, true)
	}
}

func (d *driver) ExposePrivateCards(shown []game.ExposedCards) {
	if d.history != nil {
		d.history.Showdown(shown)
	}
}

func (d *driver) NotifyDealerButton(int) {}
func (d *driver) NotifyDeckInfo(int, deck.Rank) {}
func (d *driver) NotifyNewRound(game.RoundKind) {}
func (d *driver) NotifyRevealOrder([]string) {}
func (d *driver) NotifyPotUpdates(game.PotUpdate) {}
func (d *driver) NotifyPlayerBalance(string, int64, int64) {}
func (d *driver) NotifyPlayerStatus(string, game.PlayerStatus) {}
func (d *driver) ReportTournamentRound(game.TournamentReport) {}
func (d *driver) NotifyBuyInInfo(id string, info game.BuyInInfo) { d.buyIns[id] = info }
func (d *driver) ScheduleTimeout(_ time.Duration, to game.Timeout) { d.timeouts = append(d.timeouts, to) }

func (d *driver) NotifyActionPerformed(a game.PerformedAction) {
	if d.history != nil {
		d.history.Action(a)
	}
	d.pending = slices.DeleteFunc(d.pending, func(r game.ActionRequest) bool {
		return r.PlayerID == a.PlayerID
	})
}

func (d *driver) RequestAction(req game.ActionRequest) {
	d.RequestMultipleActions([]game.ActionRequest{req})
}

func (d *driver) RequestMultipleActions(reqs []game.ActionRequest) {
	for _, req := range reqs {
		d.pending = slices.DeleteFunc(d.pending, func(r game.ActionRequest) bool {
			return r.PlayerID == req.PlayerID
		})
		d.pending = append(d.pending, req)
	}
}

func (d *driver) NotifyHandEnd(result *game.HandResult, status game.HandEndStatus) {
	if d.history != nil {
		d.history.HandEnded(result, status)
	}
	d.pending = nil
	d.ended = true

	sample := statistics.HandSample{Canceled: status == game.HandEndCanceledTooFewPlayers}
	if result != nil && !sample.Canceled {
		sample.Pot = result.Rake.TotalBeforeRake
		sample.Rake = result.Rake.Total
		sample.Winnings = result.TotalWinnings()
		sample.Showdown = len(result.RatedHands) > 1
	}
	d.stats.Add(sample)
	d.logger.Debug("hand finished", "status", status, "pot", sample.Pot, "rake", sample.Rake)
}
