package serial

import (
	"context"
	"testing"
	"time"

	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

func newTestBufferedTx(t *testing.T) (*BufferedTx[stm32l4.USART2], *stm32l4.USART_Type) {
	t.Helper()
	s, p := newTestSerial(t)
	tx, _ := s.Split()
	regs := p.USART2.Registers()
	regs.TDR.ResetCounts()
	return NewBufferedTx(tx), regs
}

func txeieSet(regs *stm32l4.USART_Type) bool {
	return regs.CR1.Peek()&stm32l4.USART_CR1_TXEIE != 0
}

// busy makes the transmitter look mid-frame.
func busy(regs *stm32l4.USART_Type) {
	regs.ISR.Poke(regs.ISR.Peek() &^ (stm32l4.USART_ISR_TXE | stm32l4.USART_ISR_TC))
}

func TestBufferedTxIdleWritesDirectly(t *testing.T) {
	b, regs := newTestBufferedTx(t)

	if n := b.SendSome([]byte{'a'}); n != 1 {
		t.Fatalf("SendSome=%d want 1", n)
	}
	if regs.TDR.Stores() != 1 || regs.TDR.Peek() != 'a' {
		t.Fatalf("TDR stores=%d value=%q", regs.TDR.Stores(), regs.TDR.Peek())
	}
	if txeieSet(regs) {
		t.Fatal("TXEIE armed with nothing queued")
	}
	if b.Queued() != 0 {
		t.Fatalf("queued=%d", b.Queued())
	}
}

func TestBufferedTxArmsAndDrainsFromInterrupt(t *testing.T) {
	b, regs := newTestBufferedTx(t)

	if n := b.SendSome([]byte("abc")); n != 3 {
		t.Fatalf("SendSome=%d want 3", n)
	}
	if regs.TDR.Peek() != 'a' || b.Queued() != 2 {
		t.Fatalf("after send: TDR=%q queued=%d", regs.TDR.Peek(), b.Queued())
	}
	if !txeieSet(regs) {
		t.Fatal("TXEIE not armed with bytes queued")
	}

	// Frame still in flight: nothing moves, nothing is signalled.
	b.HandleInterrupt()
	if regs.TDR.Stores() != 1 || len(b.Writable()) != 0 {
		t.Fatalf("busy interrupt: stores=%d notify=%d", regs.TDR.Stores(), len(b.Writable()))
	}

	stm32l4.SimTransmitDone(regs)
	b.HandleInterrupt()
	if regs.TDR.Peek() != 'b' || !txeieSet(regs) {
		t.Fatalf("second frame: TDR=%q armed=%v", regs.TDR.Peek(), txeieSet(regs))
	}

	stm32l4.SimTransmitDone(regs)
	b.HandleInterrupt()
	if regs.TDR.Peek() != 'c' || regs.TDR.Stores() != 3 {
		t.Fatalf("third frame: TDR=%q stores=%d", regs.TDR.Peek(), regs.TDR.Stores())
	}
	if txeieSet(regs) {
		t.Fatal("TXEIE left armed after the ring drained")
	}
	if b.Queued() != 0 {
		t.Fatalf("queued=%d", b.Queued())
	}
	// Two progress events, one pending notification.
	if len(b.Writable()) != 1 {
		t.Fatalf("notify not coalesced: %d", len(b.Writable()))
	}

	// Masked again: further interrupts leave TDR alone.
	stm32l4.SimTransmitDone(regs)
	b.HandleInterrupt()
	if regs.TDR.Stores() != 3 {
		t.Fatalf("masked interrupt wrote TDR: stores=%d", regs.TDR.Stores())
	}
}

func TestBufferedTxKeepsOrderBehindQueue(t *testing.T) {
	b, regs := newTestBufferedTx(t)
	busy(regs)

	b.SendSome([]byte("xy"))
	if regs.TDR.Stores() != 0 {
		t.Fatal("wrote TDR while the transmitter was busy")
	}
	// TXE rises but the interrupt has not run yet: the new byte must queue
	// behind x and y instead of jumping ahead.
	stm32l4.SimTransmitDone(regs)
	b.SendSome([]byte("z"))
	if regs.TDR.Stores() != 0 || b.Queued() != 3 {
		t.Fatalf("stores=%d queued=%d", regs.TDR.Stores(), b.Queued())
	}

	var got []byte
	for i := 0; i < 3; i++ {
		stm32l4.SimTransmitDone(regs)
		b.HandleInterrupt()
		got = append(got, byte(regs.TDR.Peek()))
	}
	if string(got) != "xyz" {
		t.Fatalf("order %q want xyz", got)
	}
}

func TestBufferedTxSpuriousInterruptDisarms(t *testing.T) {
	b, regs := newTestBufferedTx(t)
	b.tx.arm()

	b.HandleInterrupt()
	if txeieSet(regs) {
		t.Fatal("empty ring left TXEIE armed")
	}
	if regs.TDR.Stores() != 0 {
		t.Fatalf("stores=%d", regs.TDR.Stores())
	}
	if len(b.Writable()) != 1 {
		t.Fatal("drain not signalled")
	}
}

func TestBufferedTxFullRing(t *testing.T) {
	b, regs := newTestBufferedTx(t)
	busy(regs)

	p := make([]byte, 200)
	if n := b.SendSome(p); n != b.ring.Size() {
		t.Fatalf("SendSome=%d want %d", n, b.ring.Size())
	}
	if n := b.SendSome(p); n != 0 {
		t.Fatalf("full ring accepted %d", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	n, err := b.WriteContext(ctx, p)
	if n != 0 || err != context.DeadlineExceeded {
		t.Fatalf("WriteContext=%d,%v want 0,DeadlineExceeded", n, err)
	}
}

func TestBufferedTxWriteWaitsForSpace(t *testing.T) {
	b, regs := newTestBufferedTx(t)
	busy(regs)
	full := make([]byte, b.ring.Size())
	b.SendSome(full)

	// One frame completes: a slot frees and Writable fires.
	stm32l4.SimTransmitDone(regs)
	b.HandleInterrupt()

	n, err := b.SendSomeContext(context.Background(), []byte("qr"))
	if err != nil || n != 1 {
		t.Fatalf("SendSomeContext=%d,%v want 1,nil", n, err)
	}
}

func TestBufferedTxFlush(t *testing.T) {
	b, regs := newTestBufferedTx(t)
	b.SendSome([]byte("ok"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Flush(ctx); err != context.Canceled {
		t.Fatalf("Flush with queued bytes: %v", err)
	}

	stm32l4.SimTransmitDone(regs)
	b.HandleInterrupt()
	if b.Queued() != 0 {
		t.Fatalf("queued=%d", b.Queued())
	}
	// Ring empty but the last frame is still shifting out.
	if err := b.Flush(ctx); err != context.Canceled {
		t.Fatalf("Flush before TC: %v", err)
	}

	stm32l4.SimTransmitDone(regs)
	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("Flush after TC: %v", err)
	}
}
