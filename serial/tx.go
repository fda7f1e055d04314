package serial

import (
	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// Tx is the transmitter half. It reads ISR and writes TDR. After Split it
// is also the only writer of CR1.TXEIE, which a BufferedTx arms on demand;
// the receiver half never touches CR1.
//
// With flow control off and outside SmartCard mode the transmitter has no
// failure mode, so every operation returns nb.Void.
type Tx[U Instance] struct {
	regs *stm32l4.USART_Type
}

// Write places b in TDR if the transmitter can take it, otherwise it reports
// nb.Blocked and leaves TDR alone.
func (tx *Tx[U]) Write(b byte) nb.Void {
	if !tx.regs.ISR.HasBits(stm32l4.USART_ISR_TXE) {
		return nb.Blocked
	}
	tx.regs.TDR.Set(uint32(b))
	return nb.Void{}
}

// Flush succeeds once the last frame has left the shift register.
func (tx *Tx[U]) Flush() nb.Void {
	if !tx.regs.ISR.HasBits(stm32l4.USART_ISR_TC) {
		return nb.Blocked
	}
	return nb.Void{}
}

func (tx *Tx[U]) ready() bool { return tx.regs.ISR.HasBits(stm32l4.USART_ISR_TXE) }

func (tx *Tx[U]) armed() bool { return tx.regs.CR1.HasBits(stm32l4.USART_CR1_TXEIE) }

// arm enables the TXE interrupt. Both arm and disarm are read-modify-write
// on CR1; an interrupt landing between the two halves of arm can only leave
// TXEIE set with nothing queued, which the next interrupt undoes.
func (tx *Tx[U]) arm() { tx.regs.CR1.SetBits(stm32l4.USART_CR1_TXEIE) }

func (tx *Tx[U]) disarm() { tx.regs.CR1.ClearBits(stm32l4.USART_CR1_TXEIE) }
