// Package sync provides higher-level synchronization primitives built
// directly on park/unpark: mutexes, condition variables, a ticket
// sequencer and blocking queues, none of which pay for an embedded OS
// wait-queue of their own.
package sync

import (
	"unsafe"

	"github.com/twmb/parkinglot/park"
	"github.com/twmb/parkinglot/queue/mpmc/mpmcdvq"
	"github.com/twmb/parkinglot/queue/mpsc/mpscdvq"
	"github.com/twmb/parkinglot/queue/spmc/spmcdvq"
	"github.com/twmb/parkinglot/queue/spsc/spscdvq"
)

// ring is satisfied by every dvq ring buffer in the queue package. Each one
// only fails fast when full/empty; Queue adds the blocking behavior.
type ring interface {
	TryEnqueue(unsafe.Pointer) bool
	TryDequeue() (unsafe.Pointer, bool)
}

// Queue is a bounded blocking channel-like queue, built by pairing a
// lock-free ring buffer with Park/Unpark instead of a spin-then-block
// wrapper around the same ring buffers (see DESIGN.md). Enqueue blocks
// while the ring is full; Dequeue blocks while the ring is empty.
//
// notFullTok and notEmptyTok exist only so their addresses can serve as two
// distinct, never-colliding park keys private to this Queue — their values
// are never read.
type Queue struct {
	r          ring
	notFullTok byte
	notEmptyTok byte
}

func newQueue(r ring) *Queue {
	return &Queue{r: r}
}

func (q *Queue) notFull() uintptr  { return uintptr(unsafe.Pointer(&q.notFullTok)) }
func (q *Queue) notEmpty() uintptr { return uintptr(unsafe.Pointer(&q.notEmptyTok)) }

// NewMPMC returns a multi-producer multi-consumer blocking queue of the
// given capacity (rounded up to the next power of two).
func NewMPMC(capacity uint) *Queue { return newQueue(mpmcdvq.New(capacity)) }

// NewMPSC returns a multi-producer single-consumer blocking queue. Only one
// goroutine may call Dequeue concurrently.
func NewMPSC(capacity uint) *Queue { return newQueue(mpscdvq.New(capacity)) }

// NewSPMC returns a single-producer multi-consumer blocking queue. Only one
// goroutine may call Enqueue concurrently.
func NewSPMC(capacity uint) *Queue { return newQueue(spmcdvq.New(capacity)) }

// NewSPSC returns a single-producer single-consumer blocking queue. Only
// one goroutine may call Enqueue, and only one may call Dequeue,
// concurrently.
func NewSPSC(capacity uint) *Queue { return newQueue(spscdvq.New(capacity)) }

// Enqueue blocks until ptr can be added to the queue.
//
// The validate callback Park requires doubles as the actual enqueue
// attempt here: TryEnqueue either succeeds (nothing to wait for, so
// validate reports "don't park") or fails because the ring is full (so
// validate reports "still park"). This is safe because the ring's own
// atomics, not park state, guard correctness; Park's bucket lock only ever
// orders the wait/wake handshake around it.
func (q *Queue) Enqueue(ptr unsafe.Pointer) {
	for {
		stillFull := true
		park.Park(q.notFull(), func() bool {
			stillFull = !q.r.TryEnqueue(ptr)
			return stillFull
		})
		if !stillFull {
			park.UnparkOne(q.notEmpty())
			return
		}
	}
}

// Dequeue blocks until a value can be removed from the queue.
func (q *Queue) Dequeue() unsafe.Pointer {
	for {
		var ptr unsafe.Pointer
		stillEmpty := true
		park.Park(q.notEmpty(), func() bool {
			var ok bool
			ptr, ok = q.r.TryDequeue()
			stillEmpty = !ok
			return stillEmpty
		})
		if !stillEmpty {
			park.UnparkOne(q.notFull())
			return ptr
		}
	}
}
