//go:build !parkcheck

package park

import (
	"github.com/twmb/parkinglot/internal/rt"
	"github.com/twmb/parkinglot/primitive"
)

// bucketLock is the default bucket spinlock: a short critical-section CAS
// loop with a Gosched backoff. A bucket only ever needs plain exclusive
// lock/unlock, never shared readers, and every critical section is a small,
// bounded number of pointer updates with no I/O, so spinning beats paying
// for an OS mutex.
type bucketLock struct {
	word rt.U32
}

func (l *bucketLock) Lock() {
	for !l.word.CAS(0, 1) {
		primitive.Pause()
	}
}

func (l *bucketLock) Unlock() {
	l.word.Store(0)
}
