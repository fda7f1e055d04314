// Package rcc holds the clock-tree snapshot and the bus enable/reset handles
// that peripheral drivers consume. Deriving the clock tree is done elsewhere;
// this package only carries the frozen result.
package rcc

import (
	"time"

	"github.com/jangala-dev/tinygo-l4hal/mmio"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// Hertz is a frequency in cycles per second.
type Hertz uint32

// KHz returns n kilohertz.
func KHz(n uint32) Hertz { return Hertz(n * 1_000) }

// MHz returns n megahertz.
func MHz(n uint32) Hertz { return Hertz(n * 1_000_000) }

// TicksIn returns the number of whole cycles of f that fit in d.
// Negative durations yield zero.
func (f Hertz) TicksIn(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	secs := uint64(d / time.Second)
	nanos := uint64(d % time.Second)
	return secs*uint64(f) + nanos*uint64(f)/uint64(time.Second)
}

// DurationOf returns the time taken by ticks cycles of f.
func (f Hertz) DurationOf(ticks uint64) time.Duration {
	if f == 0 {
		return 0
	}
	secs := ticks / uint64(f)
	rem := ticks % uint64(f)
	return time.Duration(secs)*time.Second + time.Duration(rem*uint64(time.Second)/uint64(f))
}

// Tick returns the period of one cycle, truncated to the nanosecond.
func (f Hertz) Tick() time.Duration {
	if f == 0 {
		return 0
	}
	return time.Second / time.Duration(f)
}

// Bps is a baud rate in bits per second.
type Bps uint32

// Clocks is a frozen snapshot of the clock tree.
type Clocks struct {
	sysclk Hertz
	pclk1  Hertz
	pclk2  Hertz
}

// NewClocks records the frequencies produced by the clock configuration.
func NewClocks(sysclk, pclk1, pclk2 Hertz) Clocks {
	return Clocks{sysclk: sysclk, pclk1: pclk1, pclk2: pclk2}
}

// ResetClocks is the tree as it comes out of reset: MSI at 4 MHz feeding
// SYSCLK and both APB buses undivided.
func ResetClocks() Clocks {
	return NewClocks(MHz(4), MHz(4), MHz(4))
}

func (c Clocks) SysClk() Hertz { return c.sysclk }
func (c Clocks) PClk1() Hertz  { return c.pclk1 }
func (c Clocks) PClk2() Hertz  { return c.pclk2 }

// bus is a pair of enable and reset registers.
type bus struct {
	enr  *mmio.Reg32
	rstr *mmio.Reg32
}

// Enable turns on the clocks selected by mask.
func (b *bus) Enable(mask uint32) { b.enr.SetBits(mask) }

// Disable turns off the clocks selected by mask.
func (b *bus) Disable(mask uint32) { b.enr.ClearBits(mask) }

// Reset pulses the reset lines selected by mask.
func (b *bus) Reset(mask uint32) {
	b.rstr.SetBits(mask)
	b.rstr.ClearBits(mask)
}

// Bus handles. Holding one is the right to enable and reset the peripherals
// on that bus.
type (
	AHB1   struct{ bus }
	AHB2   struct{ bus }
	APB1R1 struct{ bus }
	APB2   struct{ bus }
)

// Parts are the bus handles split out of RCC.
type Parts struct {
	AHB1   AHB1
	AHB2   AHB2
	APB1R1 APB1R1
	APB2   APB2
}

// Constrain splits RCC into its bus handles.
func Constrain(r stm32l4.RCC) *Parts {
	regs := r.Registers()
	return &Parts{
		AHB1:   AHB1{bus{enr: &regs.AHB1ENR, rstr: &regs.AHB1RSTR}},
		AHB2:   AHB2{bus{enr: &regs.AHB2ENR, rstr: &regs.AHB2RSTR}},
		APB1R1: APB1R1{bus{enr: &regs.APB1ENR1, rstr: &regs.APB1RSTR1}},
		APB2:   APB2{bus{enr: &regs.APB2ENR, rstr: &regs.APB2RSTR}},
	}
}
