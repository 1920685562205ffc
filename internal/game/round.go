package game

// RoundKind enumerates every round a variant may play
type RoundKind int

const (
	KindBlinds RoundKind = iota
	KindAnte
	KindBetting
	KindDealCommunityCards
	KindDealInitialPocketCards
	KindDealExposedPocketCards
)

func (k RoundKind) String() string {
	return [...]string{
		"BLINDS", "ANTE", "BETTING", "DEAL_COMMUNITY_CARDS",
		"DEAL_INITIAL_POCKET_CARDS", "DEAL_EXPOSED_POCKET_CARDS",
	}[k]
}

// dealing reports whether the kind deals cards without player input
func (k RoundKind) dealing() bool {
	return k == KindDealCommunityCards || k == KindDealInitialPocketCards || k == KindDealExposedPocketCards
}

// Round is one step of a hand. The set of implementations is closed; each
// variant dispatches on Kind.
type Round interface {
	Kind() RoundKind
	start(h *Hand)
	act(h *Hand, a PlayerAction) error
	timeout(h *Hand, t Timeout)
	finished() bool
}

type dealRound struct {
	kind    RoundKind
	hidden  int
	exposed int
	dealt   bool
}

func newCommunityRound(cards int) *dealRound {
	return &dealRound{kind: KindDealCommunityCards, exposed: cards}
}

func newPocketRound(kind RoundKind, hidden, exposed int) *dealRound {
	return &dealRound{kind: kind, hidden: hidden, exposed: exposed}
}

func (r *dealRound) Kind() RoundKind { return r.kind }

func (r *dealRound) start(h *Hand) {
	if r.kind == KindDealCommunityCards {
		cards := h.deck.DealN(r.exposed)
		h.community = append(h.community, cards...)
		h.adapter.NotifyCommunityCards(cards)
		h.logger.Debug("community cards dealt", "cards", cards, "board", h.community)
	} else {
		h.dealPocketCards(r.hidden, r.exposed)
	}
	r.dealt = true
}

func (r *dealRound) act(_ *Hand, a PlayerAction) error {
	return errNoRequest(a.PlayerID)
}

func (r *dealRound) timeout(*Hand, Timeout) {}

func (r *dealRound) finished() bool { return r.dealt }
