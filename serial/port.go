package serial

import (
	"tinygo.org/x/drivers"

	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// Port joins a Tx and an Rx into a blocking byte stream. Every wait is a
// busy-wait on the calling goroutine.
type Port[U Instance] struct {
	Tx *Tx[U]
	Rx *Rx[U]
}

var _ drivers.UART = (*Port[stm32l4.USART2])(nil)

// NewPort returns a blocking port over tx and rx.
func NewPort[U Instance](tx *Tx[U], rx *Rx[U]) *Port[U] {
	return &Port[U]{Tx: tx, Rx: rx}
}

// Read waits for one byte, then keeps reading while bytes are immediately
// available, up to len(p). A receive error ends the read and is returned with
// the bytes gathered so far.
func (p *Port[U]) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	c, err := nb.BlockValue(p.Rx.Read)
	if err != nil {
		return 0, err
	}
	b[0] = c
	n := 1
	for n < len(b) {
		c, err := p.Rx.Read()
		if err == nb.ErrWouldBlock {
			break
		}
		if err != nil {
			return n, err
		}
		b[n] = c
		n++
	}
	return n, nil
}

// Write blocks until every byte of b has been handed to the transmitter.
// It does not wait for the line to drain; use Flush for that.
func (p *Port[U]) Write(b []byte) (int, error) { return NewWriter(p.Tx).Write(b) }

// WriteString is Write for strings.
func (p *Port[U]) WriteString(s string) (int, error) { return NewWriter(p.Tx).WriteString(s) }

// Flush blocks until the last frame is on the wire.
func (p *Port[U]) Flush() error { return NewWriter(p.Tx).Flush() }

// Buffered returns 1 when a received byte is waiting, else 0. The USART has
// a single data register, so there is never more.
func (p *Port[U]) Buffered() int {
	if p.Rx.Pending() {
		return 1
	}
	return 0
}

// Writer is the blocking transmit side on its own, for when the receiver
// is owned elsewhere (a Buffered reader or a DMA stream).
type Writer[U Instance] struct {
	tx *Tx[U]
}

// NewWriter returns a blocking writer over tx.
func NewWriter[U Instance](tx *Tx[U]) Writer[U] { return Writer[U]{tx: tx} }

// Write blocks until every byte of b has been handed to the transmitter.
func (w Writer[U]) Write(b []byte) (int, error) {
	for _, c := range b {
		nb.Block(func() nb.Void { return w.tx.Write(c) })
	}
	return len(b), nil
}

// WriteString is Write for strings.
func (w Writer[U]) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		nb.Block(func() nb.Void { return w.tx.Write(c) })
	}
	return len(s), nil
}

// Flush blocks until the last frame is on the wire.
func (w Writer[U]) Flush() error {
	nb.Block(w.tx.Flush)
	return nil
}
