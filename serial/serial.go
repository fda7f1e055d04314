// Package serial drives the STM32L4 USART peripherals.
//
// A Serial is built from a USART identity, a pin pair proven valid for that
// USART at compile time, a baud rate and the clock snapshot. It can be split
// into a transmitter and a receiver half that touch disjoint registers, so
// the two directions can be driven from different contexts without locks.
// Both halves are non-blocking: an operation that cannot complete right now
// reports nb.ErrWouldBlock (or nb.Blocked) and changes nothing.
package serial

import (
	"errors"

	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// Receive errors, reported by Rx.Read in this priority order.
var (
	ErrParity  = errors.New("serial: parity error")
	ErrFraming = errors.New("serial: framing error")
	ErrNoise   = errors.New("serial: noise error")
	ErrOverrun = errors.New("serial: rx overrun")
)

// minDivisor is the smallest BRR value the USART accepts with 16x oversampling.
const minDivisor = 16

// Event is an interrupt source.
type Event uint8

const (
	// Rxne fires when a received byte is ready in RDR.
	Rxne Event = iota
	// Txe fires when TDR can accept a byte.
	Txe
)

func (e Event) mask() uint32 {
	if e == Txe {
		return stm32l4.USART_CR1_TXEIE
	}
	return stm32l4.USART_CR1_RXNEIE
}

// Instance is a USART identity.
type Instance interface {
	stm32l4.USART1 | stm32l4.USART2
	Registers() *stm32l4.USART_Type
}

// Serial owns a configured USART and its pins until Split or Free.
type Serial[U Instance, P Pins[U]] struct {
	usart U
	pins  P
	regs  *stm32l4.USART_Type
}

// NewUSART1 configures USART1, clocked from PCLK2.
func NewUSART1[P Pins[stm32l4.USART1]](usart stm32l4.USART1, pins P, baud rcc.Bps, clocks rcc.Clocks, apb *rcc.APB2) *Serial[stm32l4.USART1, P] {
	apb.Enable(stm32l4.RCC_APB2ENR_USART1EN)
	apb.Reset(stm32l4.RCC_APB2RSTR_USART1RST)
	return configure(usart, pins, baud, clocks.PClk2())
}

// NewUSART2 configures USART2, clocked from PCLK1.
func NewUSART2[P Pins[stm32l4.USART2]](usart stm32l4.USART2, pins P, baud rcc.Bps, clocks rcc.Clocks, apb *rcc.APB1R1) *Serial[stm32l4.USART2, P] {
	apb.Enable(stm32l4.RCC_APB1ENR1_USART2EN)
	apb.Reset(stm32l4.RCC_APB1RSTR1_USART2RST)
	return configure(usart, pins, baud, clocks.PClk1())
}

// configure programs the divisor and enables the USART with both directions.
// A divisor below 16 cannot be produced by the hardware and is a
// configuration defect, so it panics.
func configure[U Instance, P Pins[U]](usart U, pins P, baud rcc.Bps, pclk rcc.Hertz) *Serial[U, P] {
	regs := usart.Registers()

	if baud == 0 || uint32(pclk)/uint32(baud) < minDivisor {
		panic("serial: impossible baud rate")
	}
	regs.BRR.Set(uint32(pclk) / uint32(baud))

	// UE: enable USART, RE: enable receiver, TE: enable transmitter.
	regs.CR1.Set(stm32l4.USART_CR1_UE | stm32l4.USART_CR1_RE | stm32l4.USART_CR1_TE)

	return &Serial[U, P]{usart: usart, pins: pins, regs: regs}
}

func (s *Serial[U, P]) live() *stm32l4.USART_Type {
	if s.regs == nil {
		panic("serial: Serial used after Split or Free")
	}
	return s.regs
}

// Listen enables the interrupt for event.
func (s *Serial[U, P]) Listen(event Event) {
	s.live().CR1.SetBits(event.mask())
}

// Unlisten disables the interrupt for event.
func (s *Serial[U, P]) Unlisten(event Event) {
	s.live().CR1.ClearBits(event.mask())
}

// Remap returns the remap code of the pin binding.
func (s *Serial[U, P]) Remap() uint8 {
	return s.pins.remap(s.usart)
}

// Split consumes s and returns its transmitter and receiver halves.
func (s *Serial[U, P]) Split() (*Tx[U], *Rx[U]) {
	regs := s.live()
	s.regs = nil
	return &Tx[U]{regs: regs}, &Rx[U]{regs: regs}
}

// Free disables the USART, consumes s and returns the peripheral and pins.
func (s *Serial[U, P]) Free() (U, P) {
	regs := s.live()
	regs.CR1.Set(0)
	s.regs = nil
	return s.usart, s.pins
}
