//go:build !linux || parker_cond

package parker

import (
	"testing"
	"time"
)

// TestParkToleratesSpuriousWake drives a real Broadcast on the underlying
// sync.Cond with no corresponding Unpark, and asserts Park does not return:
// the state-word recheck inside Park's wait loop must treat it as nothing
// more than a spurious wake.
func TestParkToleratesSpuriousWake(t *testing.T) {
	p := New().(*CondParker)
	p.Prepare()

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		p.Park()
		close(done)
	}()
	<-started
	time.Sleep(10 * time.Millisecond) // give Park a chance to actually block

	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()

	select {
	case <-done:
		t.Fatal("Park returned on a spurious wake with no pending Unpark")
	case <-time.After(50 * time.Millisecond):
	}

	p.Unpark()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park never returned after the real Unpark")
	}
}
