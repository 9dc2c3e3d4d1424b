// Package parker implements the per-thread blocking primitive: a binary
// latch with three logical states, EMPTY, PARKED and NOTIFIED, that the
// park package's bucket protocol drives.
//
// At most one goroutine ever calls Park on a given Parker, and every Park
// is paired with a prior Prepare that resets the latch to EMPTY. Unpark may
// race ahead of Park: a Parker that is unparked before Park is ever
// entered returns immediately from the next Park call without blocking.
package parker

import "github.com/twmb/parkinglot/internal/rt"

const (
	empty uint32 = iota
	parked
	notified
)

// Parker is the per-thread blocker capability the park package drives. The
// concrete implementation is chosen at build time (the default mutex+cond
// backend, or the linux futex backend under build tag linux), never at
// runtime.
type Parker interface {
	// Prepare resets the latch to EMPTY, establishing the baseline a
	// subsequent Unpark will observe. Must be called before every Park.
	Prepare()
	// Park blocks until a matching Unpark transitions the latch to
	// NOTIFIED, then resets to EMPTY before returning. Tolerates
	// spurious wakes by re-blocking.
	Park()
	// Unpark transitions the latch to NOTIFIED and wakes a blocked
	// Park call. Idempotent if called before Park is entered: the next
	// Park returns immediately without blocking.
	Unpark()
}

// state is the shared tri-state word, embedded by both backend
// implementations so fast-path peeks (is there already a pending notify?)
// avoid taking the backend's blocking lock.
type state struct {
	word rt.U32
}

func (s *state) reset() {
	s.word.Store(empty)
}
