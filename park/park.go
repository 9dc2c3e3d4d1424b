// Package park implements the hash-bucketed park/unpark protocol: the
// generic thread-parking primitive that higher-level synchronization
// objects (see the sync package) build on instead of each paying for an
// embedded OS wait-queue.
//
// The three public operations are infallible on their happy path. An
// address is only ever used as an integer key — it is never dereferenced —
// so dangling or sentinel values are fine.
package park

import (
	"sync"

	"github.com/twmb/parkinglot/internal/rt"
	"github.com/twmb/parkinglot/parker"
)

var parkerPool = sync.Pool{New: func() any { return parker.New() }}

// Hooks lets an optional instrumentation layer (see internal/parkmetrics)
// observe park/unpark activity. Every field may be left nil; nil checks are
// the only cost paid when nobody is watching.
var Hooks struct {
	Parked      func()
	Blocked     func()
	UnparkedOne func(woke bool)
	UnparkedAll func(count int)
}

// Park conditionally blocks the calling goroutine on addr.
//
// validate is called exactly once, while addr's bucket is locked. If it
// returns false, the condition the caller wanted to wait on is already
// gone, so Park releases the bucket and returns immediately without ever
// enqueueing a waiter or touching the blocker. validate must not have side
// effects on park state and must not call Park/UnparkOne/UnparkAll for
// addr — doing so is undefined behavior the core does not detect.
//
// If validate returns true, a waiter is enqueued under the same lock and
// Park blocks until a matching UnparkOne or UnparkAll removes it. A panic
// from validate propagates after the bucket lock has been released and
// with no waiter enqueued, leaving global state consistent.
func Park(addr uintptr, validate func() bool) {
	if Hooks.Parked != nil {
		Hooks.Parked()
	}

	b := bucketFor(addr)
	b.lock.Lock()

	// unlocked tracks whether the happy path already released the lock,
	// so the deferred unlock below only fires on the early-return and
	// panic-unwind paths. This guarantees the bucket is unlocked before
	// a validate panic reaches the caller.
	unlocked := false
	defer func() {
		if !unlocked {
			b.lock.Unlock()
		}
	}()

	if !validate() {
		return
	}

	p, _ := parkerPool.Get().(parker.Parker)
	p.Prepare()
	w := &waiter{addr: addr, parker: p}
	b.enqueue(w)
	rt.Checkpoint()
	b.lock.Unlock()
	unlocked = true

	if Hooks.Blocked != nil {
		Hooks.Blocked()
	}
	p.Park()
	parkerPool.Put(p)
}

// UnparkOne wakes at most one waiter parked on addr, the oldest enqueued
// (FIFO within addr's bucket). It reports whether a waiter was found.
//
// The wake itself happens outside the bucket lock: calling into the
// blocker while still holding the lock would let the woken goroutine
// re-enter Park for a different address and contend on the same bucket,
// risking lock-order inversion.
func UnparkOne(addr uintptr) bool {
	return UnparkOneAnd(addr, nil)
}

// UnparkOneAnd behaves exactly like UnparkOne, except that onDone — if
// non-nil — is called exactly once, still under addr's bucket lock, before
// the woken waiter (if any) is actually resumed. onDone receives whether a
// waiter was found and whether at least one more waiter for addr remains
// enqueued afterward.
//
// This lets a caller fold "is anyone still waiting on this address" into
// its own state transition atomically with the unpark decision, instead of
// racing a separate read of the wait queue after the fact — the same
// problem parking_lot's unpark_one callback solves for its lock
// implementations. Without it, a caller that clears its own "someone is
// parked" bit unconditionally on every unpark can lose a wakeup: unparking
// the oldest waiter while a second waiter is still enqueued, then clearing
// the bit anyway, leaves the second waiter with nothing left to ever wake
// it.
func UnparkOneAnd(addr uintptr, onDone func(hadWaiter, moreWaiters bool)) bool {
	b := bucketFor(addr)
	b.lock.Lock()
	w := b.removeFirstMatch(addr)
	if onDone != nil {
		onDone(w != nil, b.hasMatch(addr))
	}
	rt.Checkpoint()
	b.lock.Unlock()

	woke := w != nil
	if woke {
		w.parker.Unpark()
	}
	if Hooks.UnparkedOne != nil {
		Hooks.UnparkedOne(woke)
	}
	return woke
}

// UnparkAll wakes every waiter currently enqueued on addr and returns how
// many were woken. Signals happen outside the bucket lock, same rationale
// as UnparkOne; the order waiters are signaled in within one call is
// unspecified beyond "all are signaled before UnparkAll returns".
func UnparkAll(addr uintptr) int {
	b := bucketFor(addr)
	b.lock.Lock()
	ws := b.removeAllMatches(addr)
	rt.Checkpoint()
	b.lock.Unlock()

	for _, w := range ws {
		w.parker.Unpark()
	}
	if Hooks.UnparkedAll != nil {
		Hooks.UnparkedAll(len(ws))
	}
	return len(ws)
}
