package sync

import (
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestMPMCQueueRoundTrips(t *testing.T) {
	q := NewMPMC(4)
	vals := []int{1, 2, 3}
	for i := range vals {
		q.Enqueue(unsafe.Pointer(&vals[i]))
	}
	for i := range vals {
		got := (*int)(q.Dequeue())
		require.Equal(t, vals[i], *got)
	}
}

func TestMPMCQueueBlocksWhenFull(t *testing.T) {
	q := NewMPMC(1)
	var a, b int = 1, 2
	q.Enqueue(unsafe.Pointer(&a))

	done := make(chan struct{})
	go func() {
		q.Enqueue(unsafe.Pointer(&b)) // must block until a slot frees up
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Enqueue returned on a full queue before a slot freed")
	case <-time.After(30 * time.Millisecond):
	}

	got := (*int)(q.Dequeue())
	require.Equal(t, 1, *got)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked Enqueue never unblocked after a Dequeue freed a slot")
	}
}

func TestMPMCQueueBlocksWhenEmpty(t *testing.T) {
	q := NewMPMC(4)
	var v int = 42

	done := make(chan *int)
	go func() {
		done <- (*int)(q.Dequeue())
	}()

	select {
	case <-done:
		t.Fatal("Dequeue returned on an empty queue before anything was enqueued")
	case <-time.After(30 * time.Millisecond):
	}

	q.Enqueue(unsafe.Pointer(&v))

	select {
	case got := <-done:
		require.Equal(t, 42, *got)
	case <-time.After(time.Second):
		t.Fatal("blocked Dequeue never unblocked after an Enqueue")
	}
}

func TestMPMCQueueConcurrentProducersConsumers(t *testing.T) {
	q := NewMPMC(16)
	const n = 200
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range items {
			q.Enqueue(unsafe.Pointer(&items[i]))
		}
	}()

	seen := make([]bool, n)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			got := (*int)(q.Dequeue())
			seen[*got] = true
		}
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer/consumer pair did not finish")
	}
	for i, ok := range seen {
		require.True(t, ok, "value %d was never dequeued", i)
	}
}

func TestSPSCQueueRoundTrips(t *testing.T) {
	q := NewSPSC(4)
	var v int = 7
	q.Enqueue(unsafe.Pointer(&v))
	got := (*int)(q.Dequeue())
	require.Equal(t, 7, *got)
}
