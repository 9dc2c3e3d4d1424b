package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCondSignalWakesOneWaiter(t *testing.T) {
	var mu Mutex
	c := NewCond(&mu)
	ready := false

	woke := make(chan struct{})
	go func() {
		mu.Lock()
		for !ready {
			c.Wait()
		}
		mu.Unlock()
		close(woke)
	}()

	time.Sleep(30 * time.Millisecond) // let the waiter reach c.Wait()

	mu.Lock()
	ready = true
	mu.Unlock()
	c.Signal()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter never woke after Signal")
	}
}

func TestCondBroadcastWakesEveryWaiter(t *testing.T) {
	var mu Mutex
	c := NewCond(&mu)
	ready := false
	const n = 10

	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			mu.Lock()
			for !ready {
				c.Wait()
			}
			mu.Unlock()
			done <- struct{}{}
		}()
	}

	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	ready = true
	mu.Unlock()
	c.Broadcast()

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("only %d/%d waiters woke after Broadcast", i, n)
		}
	}
}

func TestCondWaitRelocksBeforeReturning(t *testing.T) {
	var mu Mutex
	c := NewCond(&mu)
	fired := false

	go func() {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		fired = true
		mu.Unlock()
		c.Signal()
	}()

	mu.Lock()
	for !fired {
		c.Wait()
	}
	// If Wait returned without relocking mu, this read would race with the
	// goroutine above under -race.
	got := fired
	mu.Unlock()
	require.True(t, got)
}
