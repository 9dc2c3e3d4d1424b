//go:build parkcheck

package park

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Under the parkcheck build's degenerate even/odd hash, 0x1000 and 0x1002
// share a bucket but are different addresses. UnparkOne(0x1000) must wake
// only the waiter on 0x1000.
func TestSameBucketUnrelatedWakeIsSkipped(t *testing.T) {
	require.Equal(t, bucketIndex(0x1000), bucketIndex(0x1002), "test assumption: both addresses share a bucket")

	const addrB, addrC = uintptr(0x1000), uintptr(0x1002)

	doneB := make(chan struct{})
	doneC := make(chan struct{})
	go func() { Park(addrB, func() bool { return true }); close(doneB) }()
	go func() { Park(addrC, func() bool { return true }); close(doneC) }()
	time.Sleep(10 * time.Millisecond)

	require.True(t, UnparkOne(addrB))
	waitFor(t, doneB, "B did not wake from UnparkOne(0x1000)")

	select {
	case <-doneC:
		t.Fatal("C was woken by UnparkOne on a different address sharing its bucket")
	case <-time.After(50 * time.Millisecond):
	}

	require.True(t, UnparkOne(addrC))
	waitFor(t, doneC, "C never woke from its own UnparkOne")
}
