package serial

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jangala-dev/tinygo-l4hal/nb"
)

// ErrBufferEmpty is returned by Buffered.ReadByte when no byte is stored.
var ErrBufferEmpty = errors.New("serial: buffer empty")

// ErrorCounts are the receive errors seen by a Buffered reader.
type ErrorCounts struct {
	Parity  uint32
	Framing uint32
	Noise   uint32
	Overrun uint32
	Dropped uint32 // bytes lost because the ring was full
}

// Buffered moves bytes from an Rx into a software ring, normally from the
// USART interrupt after Listen(Rxne). Receive errors are counted and cleared
// so a noisy line does not stall reception.
type Buffered[U Instance] struct {
	rx     *Rx[U]
	ring   RingBuffer
	notify chan struct{} // coalesced readiness, cap 1

	parity, framing, noise, overrun, dropped atomic.Uint32

	stats Stats
}

// NewBuffered takes rx. Nothing is read until HandleInterrupt runs.
func NewBuffered[U Instance](rx *Rx[U]) *Buffered[U] {
	return &Buffered[U]{rx: rx, notify: make(chan struct{}, 1)}
}

// HandleInterrupt drains the receiver into the ring. Call it from the USART
// interrupt handler, or poll it.
func (b *Buffered[U]) HandleInterrupt() {
	drained := 0
	for {
		c, err := b.rx.Read()
		if err == nb.ErrWouldBlock {
			break
		}
		if err != nil {
			b.count(err)
			b.rx.ClearErrors()
			continue
		}
		ok := b.ring.Put(c)
		if !ok {
			b.dropped.Add(1)
		}
		b.dbgOnByte(ok)
		drained++
	}
	b.dbgISR(drained)
	if drained == 0 {
		return
	}

	// Coalesce a Readable notification.
	select {
	case b.notify <- struct{}{}:
		b.dbgNotify(true)
	default:
		b.dbgNotify(false)
	}
}

func (b *Buffered[U]) count(err error) {
	switch err {
	case ErrParity:
		b.parity.Add(1)
	case ErrFraming:
		b.framing.Add(1)
	case ErrNoise:
		b.noise.Add(1)
	case ErrOverrun:
		b.overrun.Add(1)
	}
}

// Errors returns the error counters.
func (b *Buffered[U]) Errors() ErrorCounts {
	return ErrorCounts{
		Parity:  b.parity.Load(),
		Framing: b.framing.Load(),
		Noise:   b.noise.Load(),
		Overrun: b.overrun.Load(),
		Dropped: b.dropped.Load(),
	}
}

// Readable returns a coalesced notification for RX readiness.
// The channel is level-coalesced; callers must re-check state after waking.
func (b *Buffered[U]) Readable() <-chan struct{} { return b.notify }

// Buffered returns the number of bytes stored.
func (b *Buffered[U]) Buffered() int { return b.ring.Used() }

// Discard drops every stored byte and returns how many there were. Bytes
// the interrupt stores meanwhile are kept.
func (b *Buffered[U]) Discard() int {
	n := b.ring.Used()
	b.ring.Clear()
	return n
}

// ReadByte returns one stored byte, or ErrBufferEmpty.
func (b *Buffered[U]) ReadByte() (byte, error) {
	c, ok := b.ring.Get()
	if !ok {
		return 0, ErrBufferEmpty
	}
	return c, nil
}

// Read copies up to len(p) stored bytes. It never blocks; 0, nil means
// "no data now".
func (b *Buffered[U]) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		c, ok := b.ring.Get()
		if !ok {
			break
		}
		p[n] = c
		n++
	}
	return n, nil
}

// ReadContext blocks until at least one byte is stored or ctx is done.
func (b *Buffered[U]) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n, _ := b.Read(p); n > 0 {
		return n, nil
	}
	for {
		b.dbgReadWait()
		select {
		case <-b.notify:
			if n, _ := b.Read(p); n > 0 {
				return n, nil
			}
			b.dbgSpuriousWake()
		case <-ctx.Done():
			b.dbgTimeout()
			return 0, ctx.Err()
		}
	}
}
