package sync

import (
	"sync/atomic"
	"unsafe"

	"github.com/twmb/parkinglot/park"
)

// Locker is any type with Lock and Unlock methods, same as sync.Locker.
type Locker interface {
	Lock()
	Unlock()
}

// Cond implements the same Wait/Signal/Broadcast contract as sync.Cond, but
// without an embedded per-Cond wait queue: a generation counter stands in
// for "has this Cond been signaled since I last checked", and Park/Unpark
// carry the actual parking. A waiter captures the counter before releasing
// L, then asks Park to block only if the counter is still unchanged by the
// time the bucket is locked — closing the usual wait/signal race window
// without a dedicated lock of its own.
type Cond struct {
	L   Locker
	gen uint32
}

// NewCond returns a new Cond guarded by l.
func NewCond(l Locker) *Cond {
	return &Cond{L: l}
}

func (c *Cond) addr() uintptr {
	return uintptr(unsafe.Pointer(&c.gen))
}

// Wait atomically unlocks c.L and suspends the calling goroutine, then
// relocks c.L before returning. The caller must hold c.L. As with
// sync.Cond, Wait can return without a corresponding Signal/Broadcast, so
// callers must recheck their condition in a loop.
func (c *Cond) Wait() {
	gen := atomic.LoadUint32(&c.gen)
	c.L.Unlock()
	park.Park(c.addr(), func() bool {
		return atomic.LoadUint32(&c.gen) == gen
	})
	c.L.Lock()
}

// Signal wakes one goroutine waiting on c, if any.
func (c *Cond) Signal() {
	atomic.AddUint32(&c.gen, 1)
	park.UnparkOne(c.addr())
}

// Broadcast wakes every goroutine waiting on c.
func (c *Cond) Broadcast() {
	atomic.AddUint32(&c.gen, 1)
	park.UnparkAll(c.addr())
}
