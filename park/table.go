package park

import "sync"

// table is the process-global, fixed-size array of buckets. It is
// read-only after initialization; each bucket's interior is mutated only
// under its own lock. There is no dynamic growth, ever.
var (
	tableOnce sync.Once
	table     [numBuckets]bucket
)

// initTable lazily initializes the global table exactly once, in a
// thread-safe manner. Every bucket starts with an empty list; bucket is a
// zero-value-ready struct, so there is nothing to do beyond guaranteeing
// the happens-before edge sync.Once already provides for any reader that
// follows.
func initTable() {
	tableOnce.Do(func() {})
}

func bucketFor(addr uintptr) *bucket {
	initTable()
	return &table[bucketIndex(addr)]
}
