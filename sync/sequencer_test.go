package sync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSequencerOrdersGoroutines(t *testing.T) {
	var seq Sequencer
	const n = 50
	order := make([]int, 0, n)
	var mu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(n)
	for i := n - 1; i >= 0; i-- { // launch in reverse to prove ordering isn't accidental
		turn := uint64(i)
		go func() {
			defer wg.Done()
			seq.WaitForTurn(turn)
			mu.Lock()
			order = append(order, int(turn))
			mu.Unlock()
			seq.CompleteTurn(turn)
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sequencer never drained all turns")
	}

	for i := 0; i < n; i++ {
		require.Equal(t, i, order[i])
	}
}

func TestSequencerWaitForCurrentTurnReturnsImmediately(t *testing.T) {
	var seq Sequencer
	done := make(chan struct{})
	go func() {
		seq.WaitForTurn(0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForTurn(0) blocked despite turn already being 0")
	}
}
