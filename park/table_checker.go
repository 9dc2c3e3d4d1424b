//go:build parkcheck

package park

// numBuckets is the model-checking table size: exactly 2 buckets, one for
// even addresses and one for odd. This is a testability
// choice, not a performance one — it forces tests to exercise both the
// same-bucket and different-bucket interleavings with minimal state
// explosion. Consumers' tests must account for this by offsetting
// addresses by one byte to force a different bucket. park_checker_test.go
// relies on 0x1000 and 0x1002 sharing a bucket under this hash.
const numBuckets = 2

func bucketIndex(addr uintptr) int {
	return int(addr & 1)
}
