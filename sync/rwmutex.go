package sync

import (
	"sync/atomic"
	"unsafe"

	"github.com/twmb/parkinglot/park"
)

// RWMutex packs a writer-held bit and a reader count into one uint32, the
// same extract/mask idiom ilock.Mutex uses to pack its four intention-lock
// counters into one uint64, narrowed here to the two fields a plain
// reader-writer lock needs. Waiters of either kind block on the same park
// address and are all woken on every Unlock and whenever RUnlock drops the
// reader count to zero; a reader that wakes up only to find a writer got
// there first just loops back into RLock.
type RWMutex struct {
	state uint32 // bit 31: writer held; bits 0-30: reader count
}

const (
	rwWriterBit  uint32 = 1 << 31
	rwReaderMask uint32 = rwWriterBit - 1
)

func rwHasWriter(state uint32) bool { return state&rwWriterBit != 0 }
func rwReaders(state uint32) uint32 { return state & rwReaderMask }

// Lock acquires m for exclusive write access.
func (m *RWMutex) Lock() {
	for {
		s := atomic.LoadUint32(&m.state)
		if s == 0 {
			if atomic.CompareAndSwapUint32(&m.state, 0, rwWriterBit) {
				return
			}
			continue
		}
		park.Park(m.addr(), func() bool {
			return atomic.LoadUint32(&m.state) != 0
		})
	}
}

// Unlock releases an exclusive write lock held via Lock.
func (m *RWMutex) Unlock() {
	atomic.StoreUint32(&m.state, 0)
	park.UnparkAll(m.addr())
}

// RLock acquires m for shared read access. Multiple readers may hold the
// lock concurrently, but never alongside a writer.
func (m *RWMutex) RLock() {
	for {
		s := atomic.LoadUint32(&m.state)
		if !rwHasWriter(s) {
			if atomic.CompareAndSwapUint32(&m.state, s, s+1) {
				return
			}
			continue
		}
		park.Park(m.addr(), func() bool {
			return rwHasWriter(atomic.LoadUint32(&m.state))
		})
	}
}

// RUnlock releases a shared read lock held via RLock.
func (m *RWMutex) RUnlock() {
	s := atomic.AddUint32(&m.state, ^uint32(0)) // two's-complement -1
	if rwReaders(s) == 0 {
		park.UnparkAll(m.addr())
	}
}

func (m *RWMutex) addr() uintptr {
	return uintptr(unsafe.Pointer(&m.state))
}
