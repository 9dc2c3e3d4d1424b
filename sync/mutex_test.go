package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMutexExcludesConcurrentAccess(t *testing.T) {
	var m Mutex
	counter := 0
	const n = 200

	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			m.Lock()
			counter++
			m.Unlock()
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
	require.Equal(t, n, counter)
}

func TestMutexSecondLockerBlocksUntilUnlock(t *testing.T) {
	var m Mutex
	m.Lock()

	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock returned before the first Unlock")
	case <-time.After(30 * time.Millisecond):
	}

	m.Unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never unblocked after Unlock")
	}
}

// TestMutexTwoQueuedWaitersBothWake pins two goroutines behind a held
// Mutex at the same time, so both reach lockSlow and park while the
// holder still owns the lock — regression coverage for a lost wakeup
// where releasing the lock cleared the parked bit even though a second
// waiter was still enqueued.
func TestMutexTwoQueuedWaitersBothWake(t *testing.T) {
	var m Mutex
	m.Lock()

	const n = 2
	queued := make(chan struct{}, n)
	acquired := make(chan int, n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			queued <- struct{}{}
			m.Lock()
			acquired <- i
			m.Unlock()
		}()
	}

	for i := 0; i < n; i++ {
		<-queued
	}
	time.Sleep(30 * time.Millisecond) // let both goroutines reach lockSlow and park

	m.Unlock()

	got := 0
	for i := 0; i < n; i++ {
		select {
		case <-acquired:
			got++
		case <-time.After(time.Second):
			t.Fatalf("only %d/%d queued waiters acquired the mutex", got, n)
		}
	}
}

func TestRWMutexAllowsConcurrentReaders(t *testing.T) {
	var m RWMutex
	m.RLock()

	acquired := make(chan struct{})
	go func() {
		m.RLock()
		close(acquired)
		m.RUnlock()
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second RLock blocked behind a held read lock")
	}
	m.RUnlock()
}

func TestRWMutexWriterExcludesReaders(t *testing.T) {
	var m RWMutex
	m.Lock()

	acquired := make(chan struct{})
	go func() {
		m.RLock()
		close(acquired)
		m.RUnlock()
	}()

	select {
	case <-acquired:
		t.Fatal("RLock returned while a writer held the lock")
	case <-time.After(30 * time.Millisecond):
	}

	m.Unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("RLock never unblocked after the writer released")
	}
}

func TestRWMutexReadersExcludeWriter(t *testing.T) {
	var m RWMutex
	m.RLock()

	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
		m.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("Lock returned while a reader held the lock")
	case <-time.After(30 * time.Millisecond):
	}

	m.RUnlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Lock never unblocked after the reader released")
	}
}
