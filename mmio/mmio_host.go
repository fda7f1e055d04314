//go:build !stm32l4

package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Host shim: a simulated register for unit tests, no device memory.

// Reg32 is a simulated 32-bit register.
type Reg32 struct {
	v      atomic.Uint32
	loads  atomic.Uint32
	stores atomic.Uint32

	onLoad  func(v uint32)
	onStore func(v uint32)
}

// Get performs a load.
func (r *Reg32) Get() uint32 {
	v := r.v.Load()
	r.loads.Add(1)
	if r.onLoad != nil {
		r.onLoad(v)
	}
	return v
}

// Set performs a store.
func (r *Reg32) Set(v uint32) {
	r.v.Store(v)
	r.stores.Add(1)
	if r.onStore != nil {
		r.onStore(v)
	}
}

// SetBits is a read-modify-write that sets the bits in mask.
func (r *Reg32) SetBits(mask uint32) { r.Set(r.Get() | mask) }

// ClearBits is a read-modify-write that clears the bits in mask.
func (r *Reg32) ClearBits(mask uint32) { r.Set(r.Get() &^ mask) }

// HasBits reports whether any bit in mask is set.
func (r *Reg32) HasBits(mask uint32) bool { return r.Get()&mask > 0 }

// ReplaceBits replaces the field mask<<pos with value<<pos.
func (r *Reg32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | value<<pos)
}

// Addr returns the address of the simulated register.
func (r *Reg32) Addr() uintptr { return uintptr(unsafe.Pointer(r)) }

// ---------- Hardware side, used by simulations and tests ----------

// Poke changes the register value the way hardware would: no hooks run and
// no access is counted.
func (r *Reg32) Poke(v uint32) { r.v.Store(v) }

// Peek returns the register value without counting a load.
func (r *Reg32) Peek() uint32 { return r.v.Load() }

// OnLoad installs fn to run after every Get.
func (r *Reg32) OnLoad(fn func(v uint32)) { r.onLoad = fn }

// OnStore installs fn to run after every Set.
func (r *Reg32) OnStore(fn func(v uint32)) { r.onStore = fn }

// Loads returns the number of loads since the last ResetCounts.
func (r *Reg32) Loads() uint32 { return r.loads.Load() }

// Stores returns the number of stores since the last ResetCounts.
func (r *Reg32) Stores() uint32 { return r.stores.Load() }

// ResetCounts zeroes the access counters.
func (r *Reg32) ResetCounts() {
	r.loads.Store(0)
	r.stores.Store(0)
}

var barrier atomic.Uint32

// Fence orders memory accesses. Simulated registers are already sequentially
// consistent; the atomic keeps the compiler from moving plain accesses past it.
func Fence() { barrier.Add(0) }
