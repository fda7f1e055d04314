package serial

import (
	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// Rx is the receiver half. It reads ISR and RDR, and writes only the receive
// error clears in ICR and the receive DMA request in CR3.
type Rx[U Instance] struct {
	regs *stm32l4.USART_Type
}

const rxErrorClears = stm32l4.USART_ICR_PECF | stm32l4.USART_ICR_FECF |
	stm32l4.USART_ICR_NCF | stm32l4.USART_ICR_ORECF

// Read returns one received byte. Error flags are checked first, in the
// order parity, framing, noise, overrun; the flags stay set until
// ClearErrors. With no byte ready it returns nb.ErrWouldBlock.
func (rx *Rx[U]) Read() (byte, error) {
	// One sample of ISR decides the outcome.
	isr := rx.regs.ISR.Get()

	switch {
	case isr&stm32l4.USART_ISR_PE != 0:
		return 0, ErrParity
	case isr&stm32l4.USART_ISR_FE != 0:
		return 0, ErrFraming
	case isr&stm32l4.USART_ISR_NF != 0:
		return 0, ErrNoise
	case isr&stm32l4.USART_ISR_ORE != 0:
		return 0, ErrOverrun
	case isr&stm32l4.USART_ISR_RXNE != 0:
		// Reading RDR clears RXNE.
		return byte(rx.regs.RDR.Get()), nil
	}
	return 0, nb.ErrWouldBlock
}

// Pending reports whether a byte is waiting in RDR, without consuming it.
func (rx *Rx[U]) Pending() bool {
	return rx.regs.ISR.HasBits(stm32l4.USART_ISR_RXNE)
}

// ClearErrors clears the parity, framing, noise and overrun flags.
func (rx *Rx[U]) ClearErrors() {
	rx.regs.ICR.Set(rxErrorClears)
}
