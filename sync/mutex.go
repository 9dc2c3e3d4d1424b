package sync

import (
	"sync/atomic"
	"unsafe"

	"github.com/twmb/parkinglot/park"
)

const (
	mutexUnlocked uint32 = 0
	mutexLocked   uint32 = 1 << 0
	mutexParked   uint32 = 1 << 1
)

// Mutex is a 2-state exclusive lock: a locked bit and a parked bit packed
// into one word, acquired and released with a CAS fast path and Park/
// UnparkOne on the slow path instead of an embedded sync.Cond.
type Mutex struct {
	state uint32
}

// Lock acquires m, blocking until it is available.
func (m *Mutex) Lock() {
	if atomic.CompareAndSwapUint32(&m.state, mutexUnlocked, mutexLocked) {
		return
	}
	m.lockSlow()
}

func (m *Mutex) lockSlow() {
	addr := m.addr()
	for {
		s := atomic.LoadUint32(&m.state)
		if s&mutexLocked == 0 {
			if atomic.CompareAndSwapUint32(&m.state, s, s|mutexLocked) {
				return
			}
			continue
		}
		if s&mutexParked == 0 {
			if !atomic.CompareAndSwapUint32(&m.state, s, s|mutexParked) {
				continue
			}
		}
		park.Park(addr, func() bool {
			return atomic.LoadUint32(&m.state) == mutexLocked|mutexParked
		})
	}
}

// Unlock releases m. It is a caller error to Unlock an already-unlocked
// Mutex, same as sync.Mutex.
func (m *Mutex) Unlock() {
	// Fast path: nobody ever set the parked bit, so no one can be waiting.
	if atomic.CompareAndSwapUint32(&m.state, mutexLocked, mutexUnlocked) {
		return
	}
	m.unlockSlow()
}

func (m *Mutex) unlockSlow() {
	// The new state is decided inside onDone, while addr's bucket is still
	// locked: if another waiter is still enqueued after this one is
	// popped, the parked bit must survive the unlock so a later Unlock
	// still knows to look for it. Deciding this from a stale read taken
	// outside the bucket lock (e.g. the old single atomic.Swap here) can
	// drop the parked bit while a second waiter is still queued, leaking
	// it forever.
	park.UnparkOneAnd(m.addr(), func(_, moreWaiters bool) {
		if moreWaiters {
			atomic.StoreUint32(&m.state, mutexParked)
		} else {
			atomic.StoreUint32(&m.state, mutexUnlocked)
		}
	})
}

func (m *Mutex) addr() uintptr {
	return uintptr(unsafe.Pointer(&m.state))
}
