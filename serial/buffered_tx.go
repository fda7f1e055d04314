package serial

import "context"

// BufferedTx queues bytes in a software ring that the TXE interrupt drains
// into TDR. The foreground only writes TDR itself while TXEIE is masked and
// nothing is queued, so at that moment it owns the start of transmission;
// otherwise it enqueues and arms TXEIE. The interrupt masks TXEIE again
// once the ring is empty.
//
// Writable is coalesced and signals both freed ring space and the final
// drain.
type BufferedTx[U Instance] struct {
	tx     *Tx[U]
	ring   RingBuffer
	notify chan struct{} // coalesced TX progress, cap 1
}

// NewBufferedTx takes tx. TXEIE stays masked until there is something to
// send.
func NewBufferedTx[U Instance](tx *Tx[U]) *BufferedTx[U] {
	return &BufferedTx[U]{tx: tx, notify: make(chan struct{}, 1)}
}

// SendSome accepts up to len(p) bytes without blocking and returns how many
// were taken.
func (b *BufferedTx[U]) SendSome(p []byte) int {
	sent := 0
	// TXEIE masked means the interrupt has emptied the ring and let go of
	// TDR, so a direct write cannot overtake queued bytes.
	if !b.tx.armed() && b.ring.Used() == 0 && len(p) > 0 && b.tx.ready() {
		b.tx.Write(p[0])
		sent++
	}
	for sent < len(p) && b.ring.Put(p[sent]) {
		sent++
	}
	// Queue first, then arm: an interrupt in between finds the bytes.
	if b.ring.Used() > 0 {
		b.tx.arm()
	}
	return sent
}

// SendSomeContext blocks until at least one byte of p is accepted or ctx is
// done.
func (b *BufferedTx[U]) SendSomeContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n := b.SendSome(p); n > 0 {
		return n, nil
	}
	for {
		select {
		case <-b.notify:
			if n := b.SendSome(p); n > 0 {
				return n, nil
			}
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// WriteContext queues all of p, waiting for ring space as needed. On
// cancellation it returns how much was queued and ctx.Err().
func (b *BufferedTx[U]) WriteContext(ctx context.Context, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := b.SendSomeContext(ctx, p[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Write queues all of p. It implements io.Writer.
func (b *BufferedTx[U]) Write(p []byte) (int, error) {
	return b.WriteContext(context.Background(), p)
}

// Flush waits until the ring has drained and the last frame has left the
// shift register.
func (b *BufferedTx[U]) Flush(ctx context.Context) error {
	for b.ring.Used() > 0 {
		select {
		case <-b.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	// TC is not interrupt driven here; the tail is at most one frame.
	for b.tx.Flush().WouldBlock() {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Queued returns the number of bytes waiting in the ring.
func (b *BufferedTx[U]) Queued() int { return b.ring.Used() }

// Writable returns a coalesced notification for TX progress.
// Callers must re-check state after waking.
func (b *BufferedTx[U]) Writable() <-chan struct{} { return b.notify }

// HandleInterrupt moves queued bytes into TDR. Call it from the USART
// interrupt handler alongside any receive handler; it does nothing while
// TXEIE is masked.
func (b *BufferedTx[U]) HandleInterrupt() {
	if !b.tx.armed() {
		return
	}
	moved := 0
	for b.tx.ready() {
		c, ok := b.ring.Get()
		if !ok {
			break
		}
		b.tx.Write(c)
		moved++
	}
	drained := b.ring.Used() == 0
	if drained {
		// TXE stays high while TDR is empty; leaving TXEIE set would storm.
		b.tx.disarm()
	}
	if moved == 0 && !drained {
		return
	}
	select {
	case b.notify <- struct{}{}:
	default:
	}
}
