// Package cortexm exposes the Cortex-M core debug blocks used for timing.
package cortexm

import (
	"sync/atomic"

	"github.com/jangala-dev/tinygo-l4hal/mmio"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// DWT is the data watchpoint and trace unit together with the debug control
// block that gates it.
type DWT struct {
	dwt *stm32l4.DWT_Type
	dcb *stm32l4.DCB_Type
}

// enabled follows the one CYCCNT in the core, not a DWT handle: tokens are
// values, so several handles can name the same counter.
var enabled atomic.Bool

// NewDWT takes the DWT and DCB blocks. Every handle shares the single
// activation of the counter.
func NewDWT(dwt stm32l4.DWT, dcb stm32l4.DCB) *DWT {
	return &DWT{dwt: dwt.Registers(), dcb: dcb.Registers()}
}

// EnableCycleCounter starts CYCCNT and hands out its read-only view. The
// counter is never stopped or reset afterwards, which later measurements
// rely on, so enabling it twice panics.
func (d *DWT) EnableCycleCounter() CycleCounter {
	if !enabled.CompareAndSwap(false, true) {
		panic("cortexm: cycle counter already enabled")
	}
	// TRCENA powers the DWT; CYCCNTENA starts the count.
	d.dcb.DEMCR.SetBits(stm32l4.DCB_DEMCR_TRCENA)
	d.dwt.CTRL.SetBits(stm32l4.DWT_CTRL_CYCCNTENA)
	return CycleCounter{cyccnt: &d.dwt.CYCCNT}
}

// Enabled reports whether the cycle counter has been started.
func (d *DWT) Enabled() bool { return enabled.Load() }

// CycleCounter reads CYCCNT. It has no way to write the counter.
type CycleCounter struct {
	cyccnt *mmio.Reg32
}

// Count returns the raw, wrapping cycle count.
func (c CycleCounter) Count() uint32 { return c.cyccnt.Get() }
