//go:build linux && !parker_cond

package parker

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// FutexParker is the linux-specific Parker backend, backed by a real
// futex(2) syscall instead of a mutex+condition-variable pair. Because the
// tri-state latch here has exactly one waiter, no bucket/linked-list
// emulation is needed: the OS futex word itself is the wait queue, reached
// directly through the raw SYS_FUTEX syscall.
type FutexParker struct {
	state
}

// New returns a Parker using the linux futex backend.
func New() Parker {
	return &FutexParker{}
}

func (p *FutexParker) Prepare() {
	p.reset()
}

func (p *FutexParker) Park() {
	if p.word.CAS(notified, empty) {
		return
	}
	p.word.CAS(empty, parked)
	for {
		cur := p.word.Load()
		if cur == notified {
			p.word.Store(empty)
			return
		}
		// FUTEX_WAIT only blocks while the word still reads `parked`;
		// if an Unpark raced ahead and changed it, the kernel returns
		// EAGAIN immediately instead of sleeping.
		futexWait(p.word.Addr(), parked)
	}
}

func (p *FutexParker) Unpark() {
	if !p.word.CAS(empty, notified) && !p.word.CAS(parked, notified) {
		return
	}
	futexWake(p.word.Addr())
}

func futexWait(addr *uint32, expect uint32) {
	_, _, _ = unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(unix.FUTEX_WAIT),
		uintptr(expect),
		0, 0, 0,
	)
}

func futexWake(addr *uint32) {
	_, _, _ = unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(unix.FUTEX_WAKE),
		1,
		0, 0, 0,
	)
}
