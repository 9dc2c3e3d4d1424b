//go:build parkcheck

package park

import "sync"

// bucketLock is the parkcheck build's bucket lock: a real sync.Mutex
// instead of a busy-spin CAS loop. This gives Go's race detector and
// scheduler real interposition points to widen the set of interleavings
// exercised under test, instead of burning Gosched calls in a spin loop.
type bucketLock struct {
	mu sync.Mutex
}

func (l *bucketLock) Lock()   { l.mu.Lock() }
func (l *bucketLock) Unlock() { l.mu.Unlock() }
