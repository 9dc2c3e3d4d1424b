package park

// mix is a 64-bit avalanche mixer (a well-known integer hash finalizer)
// over the address's integer value. It is deterministic, uniform on random
// addresses, and independent of any process-level state — exactly what
// bucket selection needs and nothing more.
func mix(addr uint64) uint64 {
	addr = (^addr) + (addr << 21)
	addr ^= addr >> 24
	addr += (addr << 3) + (addr << 8)
	addr ^= addr >> 14
	addr += (addr << 2) + (addr << 4)
	addr ^= addr >> 28
	addr += addr << 31
	return addr
}
