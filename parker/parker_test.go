package parker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFastPathNoBlock(t *testing.T) {
	p := New()
	p.Prepare()
	p.Unpark()

	done := make(chan struct{})
	go func() {
		p.Park()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park did not return on already-notified fast path")
	}
}

func TestParkThenUnpark(t *testing.T) {
	p := New()
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

	select {
	case <-done:
		t.Fatal("Park returned before Unpark was called")
	default:
	}

	p.Unpark()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park did not return after Unpark")
	}
}

func TestUnparkIdempotentBeforePark(t *testing.T) {
	p := New()
	p.Prepare()
	p.Unpark()
	p.Unpark() // second call must be a harmless no-op

	done := make(chan struct{})
	go func() {
		p.Park()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park blocked despite a pending notify")
	}
}

func TestReusableAcrossCycles(t *testing.T) {
	p := New()
	for i := 0; i < 3; i++ {
		p.Prepare()
		unparked := make(chan struct{})
		go func() {
			<-unparked
			p.Unpark()
		}()
		go func() { close(unparked) }()
		p.Park()
	}
}

func TestParkerSatisfiesInterface(t *testing.T) {
	var p Parker = New()
	require.NotNil(t, p)
}
