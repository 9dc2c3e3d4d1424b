package park

import "github.com/twmb/parkinglot/parker"

// waiter is the intrusive, singly-linked wait-queue element enqueued onto a
// bucket's list. It is created fresh for each Park call, enqueued under the
// bucket lock, and only ever unlinked under that same lock, by UnparkOne or
// UnparkAll. Park's one early exit (validate returning false) happens before
// any waiter is created, so the parker never unlinks itself. A waiter is never
// reachable from more than one bucket's list at a time and the lists never
// cycle.
//
// This value always escapes to the heap, since the bucket list retains a
// pointer to it across the Park call. That has no correctness consequence:
// the invariant that matters is lifetime, not storage class. Park never
// returns until its own waiter has been fully unlinked, so nothing outlives
// the reference the bucket list holds to it.
type waiter struct {
	addr   uintptr
	next   *waiter
	parker parker.Parker
}
