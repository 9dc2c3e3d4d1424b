package park

import "github.com/twmb/parkinglot/primitive"

// bucket pairs a lock with the head/tail of an intrusive FIFO waiter list.
// Buckets are statically allocated as part of a table and never destroyed;
// only their interior list is mutated, always under lock.
type bucket struct {
	_pad0 [primitive.FalseShare - primitive.UpSz]byte
	lock  bucketLock
	head  *waiter
	tail  *waiter
	_pad1 [primitive.FalseShare - 2*primitive.UpSz]byte
}

// enqueue appends w to the tail of the bucket's list. Caller must hold
// lock.
func (b *bucket) enqueue(w *waiter) {
	if b.tail == nil {
		b.head, b.tail = w, w
		return
	}
	b.tail.next = w
	b.tail = w
}

// removeFirstMatch unlinks and returns the first waiter whose addr equals
// addr, preserving FIFO order for every other address sharing the bucket.
// Caller must hold lock.
func (b *bucket) removeFirstMatch(addr uintptr) *waiter {
	var prev *waiter
	for w := b.head; w != nil; w = w.next {
		if w.addr != addr {
			prev = w
			continue
		}
		b.unlink(prev, w)
		return w
	}
	return nil
}

// hasMatch reports whether any waiter whose addr equals addr is still
// enqueued. Caller must hold lock.
func (b *bucket) hasMatch(addr uintptr) bool {
	for w := b.head; w != nil; w = w.next {
		if w.addr == addr {
			return true
		}
	}
	return false
}

// removeAllMatches unlinks and returns every waiter whose addr equals addr,
// in FIFO order. Caller must hold lock.
func (b *bucket) removeAllMatches(addr uintptr) []*waiter {
	var out []*waiter
	var prev *waiter
	w := b.head
	for w != nil {
		next := w.next
		if w.addr == addr {
			b.unlink(prev, w)
			out = append(out, w)
		} else {
			prev = w
		}
		w = next
	}
	return out
}

// unlink removes w, whose predecessor is prev (nil if w is the head), from
// the list. Caller must hold lock.
func (b *bucket) unlink(prev, w *waiter) {
	if prev == nil {
		b.head = w.next
	} else {
		prev.next = w.next
	}
	if w == b.tail {
		b.tail = prev
	}
	w.next = nil
}
