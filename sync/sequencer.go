package sync

import (
	"sync/atomic"
	"unsafe"

	"github.com/twmb/parkinglot/park"
)

// Sequencer hands out a strict, monotonically increasing ordering ticket:
// goroutines call WaitForTurn(n) to block until turn n arrives, and
// CompleteTurn(n) to advance the sequence and release whoever is waiting
// for n+1. This is the same ticket-ordering idea as folly's turnBroker —
// a counter plus a wait/wake pair gating progress through a total order —
// without the spin-cutoff tuning or bitpacked wait-count folly's version
// carries, since Park/UnparkAll already amortize the wake fan-out.
type Sequencer struct {
	turn uint64
}

func (s *Sequencer) addr() uintptr {
	return uintptr(unsafe.Pointer(&s.turn))
}

// WaitForTurn blocks until turn is the current turn.
func (s *Sequencer) WaitForTurn(turn uint64) {
	for atomic.LoadUint64(&s.turn) != turn {
		park.Park(s.addr(), func() bool {
			return atomic.LoadUint64(&s.turn) != turn
		})
	}
}

// CompleteTurn advances the sequence past turn and wakes every goroutine
// waiting on a later turn, so they can recheck whether it's now theirs.
// The caller must be the one holding turn (i.e. must have returned from
// WaitForTurn(turn)); calling CompleteTurn out of turn is a caller error.
func (s *Sequencer) CompleteTurn(turn uint64) {
	atomic.CompareAndSwapUint64(&s.turn, turn, turn+1)
	park.UnparkAll(s.addr())
}
