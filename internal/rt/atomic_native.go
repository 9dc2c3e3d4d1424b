//go:build !parkcheck

package rt

import "sync/atomic"

// U32 is an atomically accessed 32-bit word, used for both the parker's
// EMPTY/PARKED/NOTIFIED state and the bucket spinlock's owned flag.
type U32 struct {
	v uint32
}

func (a *U32) Load() uint32             { return atomic.LoadUint32(&a.v) }
func (a *U32) Store(val uint32)         { atomic.StoreUint32(&a.v, val) }
func (a *U32) CAS(old, new uint32) bool { return atomic.CompareAndSwapUint32(&a.v, old, new) }
func (a *U32) Swap(new uint32) uint32   { return atomic.SwapUint32(&a.v, new) }

// Addr exposes the backing word's address for platform backends (e.g. the
// linux futex parker) that must hand the kernel a raw pointer.
func (a *U32) Addr() *uint32 { return &a.v }

// Checkpoint is a no-op scheduling hint in the native build; the checker
// build overrides it to force extra goroutine switches at each interposed
// point named in the park/parker source.
func Checkpoint() {}
