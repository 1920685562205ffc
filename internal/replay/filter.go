package replay

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/protocol"
)

var ante = game.Ante.String()

// Filter turns cached entries into the events replayed to playerID, framed by
// history start and stop markers:
//
//   - entries excluded for the player are dropped
//   - an action request answered by a later action is dropped
//   - ante requests are always kept since antes are answered out of order
//   - the last unanswered request goes at the end with its time to act
//     reduced by the time passed since it was sent, floored at zero
//   - a disconnect notice after that request hands its timebank to it
//
// Entries that cannot be decoded are logged and skipped.
func Filter(entries []Entry, playerID string, now time.Time, logger *log.Logger) [][]byte {
	out := [][]byte{protocol.MustMarshal(&protocol.HistoryStart{Type: protocol.TypeHistoryStart})}

	var (
		last   *protocol.ActionRequest
		lastAt time.Time
	)
	for _, e := range entries {
		if e.Excluded != "" && e.Excluded == playerID {
			continue
		}
		msg, err := protocol.Decode(e.Data)
		if err != nil {
			logger.Warn("skipping cached entry", "player", playerID, "error", err)
			continue
		}
		switch m := msg.(type) {
		case *protocol.ActionRequest:
			if m.Allows(ante) {
				m.TimeToAct = remaining(m.TimeToAct, e.At, now)
				out = append(out, protocol.MustMarshal(m))
				continue
			}
			last, lastAt = m, e.At
		case *protocol.PlayerDisconnected:
			if last != nil {
				last.TimeToAct = m.Timebank
				lastAt = e.At
			}
			m.Timebank = remaining(m.Timebank, e.At, now)
			out = append(out, protocol.MustMarshal(m))
		case *protocol.PlayerAction:
			last = nil
			out = append(out, e.Data)
		default:
			out = append(out, e.Data)
		}
	}
	if last != nil {
		last.TimeToAct = remaining(last.TimeToAct, lastAt, now)
		out = append(out, protocol.MustMarshal(last))
	}
	return append(out, protocol.MustMarshal(&protocol.HistoryStop{Type: protocol.TypeHistoryStop}))
}

// remaining subtracts the time elapsed since at from ms, floored at zero.
func remaining(ms int64, at, now time.Time) int64 {
	return max(0, ms-now.Sub(at).Milliseconds())
}
