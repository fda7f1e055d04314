//go:build stm32l4

package mmio

import (
	"device/arm"
	"runtime/volatile"
	"sync/atomic"
	"unsafe"
)

// Reg32 is a 32-bit memory-mapped register.
type Reg32 struct {
	volatile.Register32
}

// Addr returns the bus address of the register.
func (r *Reg32) Addr() uintptr { return uintptr(unsafe.Pointer(r)) }

var barrier uint32

// Fence keeps every memory access issued before it ahead of every access
// issued after it, for both the compiler and the bus.
func Fence() {
	atomic.AddUint32(&barrier, 0)
	arm.Asm("dmb")
}
