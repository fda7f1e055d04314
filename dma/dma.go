// Package dma drives the channels of the DMA1 controller.
package dma

import (
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// Direction of a transfer.
type Direction uint8

const (
	PeripheralToMemory Direction = iota
	MemoryToPeripheral
)

// Priority of a channel in the controller's arbiter.
type Priority uint8

const (
	Low Priority = iota
	Medium
	High
	VeryHigh
)

// Width of one data item.
type Width uint8

const (
	Bits8 Width = iota
	Bits16
	Bits32
)

// Config is a channel configuration applied by Enable.
type Config struct {
	Direction           Direction
	Priority            Priority
	MemorySize          Width
	PeripheralSize      Width
	MemoryIncrement     bool
	PeripheralIncrement bool
	Circular            bool
}

const ccrConfigMask = stm32l4.DMA_CCR_DIR | stm32l4.DMA_CCR_CIRC | stm32l4.DMA_CCR_PINC |
	stm32l4.DMA_CCR_MINC | stm32l4.DMA_CCR_PSIZE_Msk | stm32l4.DMA_CCR_MSIZE_Msk |
	stm32l4.DMA_CCR_PL_Msk | stm32l4.DMA_CCR_MEM2MEM

func (c Config) bits() uint32 {
	v := uint32(c.Priority)<<stm32l4.DMA_CCR_PL_Pos |
		uint32(c.MemorySize)<<stm32l4.DMA_CCR_MSIZE_Pos |
		uint32(c.PeripheralSize)<<stm32l4.DMA_CCR_PSIZE_Pos
	if c.Direction == MemoryToPeripheral {
		v |= stm32l4.DMA_CCR_DIR
	}
	if c.MemoryIncrement {
		v |= stm32l4.DMA_CCR_MINC
	}
	if c.PeripheralIncrement {
		v |= stm32l4.DMA_CCR_PINC
	}
	if c.Circular {
		v |= stm32l4.DMA_CCR_CIRC
	}
	return v
}

// Channel is one DMA1 channel, numbered 1..7.
type Channel struct {
	dma *stm32l4.DMA_Type
	n   uint8
}

// Raw returns the channel itself; the named channel types promote it.
func (c *Channel) Raw() *Channel { return c }

// Number returns the channel number.
func (c *Channel) Number() uint8 { return c.n }

// Registers returns the channel's register set.
func (c *Channel) Registers() *stm32l4.DMA_Channel_Type { return &c.dma.CH[c.n-1] }

func (c *Channel) shift() uint8 { return 4 * (c.n - 1) }

// SetMemoryAddress programs CMAR.
func (c *Channel) SetMemoryAddress(addr uint32) { c.Registers().CMAR.Set(addr) }

// SetPeripheralAddress programs CPAR.
func (c *Channel) SetPeripheralAddress(addr uint32) { c.Registers().CPAR.Set(addr) }

// SetTransferLength programs CNDTR with the number of items per cycle.
func (c *Channel) SetTransferLength(n uint16) { c.Registers().CNDTR.Set(uint32(n)) }

// Remaining returns the number of items left in the current cycle.
func (c *Channel) Remaining() uint16 { return uint16(c.Registers().CNDTR.Get()) }

// SetRequest selects the peripheral request routed to the channel (CSELR).
func (c *Channel) SetRequest(req uint8) {
	c.dma.CSELR.ReplaceBits(uint32(req), 0xF, c.shift())
}

// Enable applies cfg and starts the channel. Interrupt enables in CCR are
// preserved.
func (c *Channel) Enable(cfg Config) {
	ccr := &c.Registers().CCR
	ccr.Set(ccr.Get()&^ccrConfigMask | cfg.bits() | stm32l4.DMA_CCR_EN)
}

// Disable stops the channel.
func (c *Channel) Disable() { c.Registers().CCR.ClearBits(stm32l4.DMA_CCR_EN) }

// IsEnabled reports whether the channel is running.
func (c *Channel) IsEnabled() bool { return c.Registers().CCR.HasBits(stm32l4.DMA_CCR_EN) }

// ListenHalfTransfer and ListenTransferComplete enable the channel interrupts.
func (c *Channel) ListenHalfTransfer()     { c.Registers().CCR.SetBits(stm32l4.DMA_CCR_HTIE) }
func (c *Channel) ListenTransferComplete() { c.Registers().CCR.SetBits(stm32l4.DMA_CCR_TCIE) }

func (c *Channel) flag(f uint32) bool { return c.dma.ISR.HasBits(f << c.shift()) }

// HalfTransfer reports the half-transfer flag.
func (c *Channel) HalfTransfer() bool { return c.flag(stm32l4.DMA_ISR_HTIF) }

// TransferComplete reports the transfer-complete flag.
func (c *Channel) TransferComplete() bool { return c.flag(stm32l4.DMA_ISR_TCIF) }

// TransferError reports the transfer-error flag.
func (c *Channel) TransferError() bool { return c.flag(stm32l4.DMA_ISR_TEIF) }

// ClearHalfTransfer clears the half-transfer flag.
func (c *Channel) ClearHalfTransfer() { c.dma.IFCR.Set(stm32l4.DMA_ISR_HTIF << c.shift()) }

// ClearTransferComplete clears the transfer-complete flag.
func (c *Channel) ClearTransferComplete() { c.dma.IFCR.Set(stm32l4.DMA_ISR_TCIF << c.shift()) }

// ClearAll clears every flag of the channel.
func (c *Channel) ClearAll() { c.dma.IFCR.Set(0xF << c.shift()) }

// Named channels. Their distinct types let drivers state at compile time
// which channel serves which peripheral request.
type (
	C1 struct{ Channel }
	C2 struct{ Channel }
	C3 struct{ Channel }
	C4 struct{ Channel }
	C5 struct{ Channel }
	C6 struct{ Channel }
	C7 struct{ Channel }
)

// Channels are the seven channels split out of DMA1.
type Channels struct {
	C1 *C1
	C2 *C2
	C3 *C3
	C4 *C4
	C5 *C5
	C6 *C6
	C7 *C7
}

// Split enables DMA1, resets it and hands out its channels.
func Split(d stm32l4.DMA1, ahb1 *rcc.AHB1) *Channels {
	ahb1.Enable(stm32l4.RCC_AHB1ENR_DMA1EN)
	ahb1.Reset(stm32l4.RCC_AHB1RSTR_DMA1RST)
	regs := d.Registers()
	return &Channels{
		C1: &C1{Channel{regs, 1}},
		C2: &C2{Channel{regs, 2}},
		C3: &C3{Channel{regs, 3}},
		C4: &C4{Channel{regs, 4}},
		C5: &C5{Channel{regs, 5}},
		C6: &C6{Channel{regs, 6}},
		C7: &C7{Channel{regs, 7}},
	}
}
