// Package mmio provides the register primitive used by every peripheral
// block in this module. A Reg32 is a 32-bit memory-mapped location whose
// loads and stores are never cached, elided or reordered with respect to
// other register accesses.
//
// On the stm32l4 target Reg32 wraps runtime/volatile and sits at the
// peripheral's bus address. On a host build it is a simulated register
// backed by sync/atomic that counts accesses and can run load/store hooks
// standing in for hardware side effects.
package mmio
