//go:build stm32l4

package main

import (
	"context"
	"crypto/sha1"
	"runtime/interrupt"
	"time"

	"github.com/jangala-dev/tinygo-l4hal/gpio"
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/serial"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

const baud = 115200

// Wiring required:
//   USART1 TX (PA9) -> USART2 RX (PA3)
//   USART2 TX (PA2) -> USART1 RX (PA10)

// port is one interrupt-driven USART: a receive ring and a transmit ring
// sharing the USART's interrupt.
type port[U serial.Instance] struct {
	rx *serial.Buffered[U]
	tx *serial.BufferedTx[U]
}

func (p *port[U]) handleInterrupt() {
	p.rx.HandleInterrupt()
	p.tx.HandleInterrupt()
}

var (
	u1 port[stm32l4.USART1]
	u2 port[stm32l4.USART2]
)

func onUSART1(interrupt.Interrupt) { u1.handleInterrupt() }
func onUSART2(interrupt.Interrupt) { u2.handleInterrupt() }

// endpoint is what the tests need from either port.
type endpoint interface {
	Discard() int
	ReadContext(ctx context.Context, p []byte) (int, error)
	WriteContext(ctx context.Context, p []byte) (int, error)
}

func (p *port[U]) Discard() int { return p.rx.Discard() }
func (p *port[U]) ReadContext(ctx context.Context, b []byte) (int, error) {
	return p.rx.ReadContext(ctx, b)
}
func (p *port[U]) WriteContext(ctx context.Context, b []byte) (int, error) {
	return p.tx.WriteContext(ctx, b)
}

func main() {
	time.Sleep(3 * time.Second)
	println("l4hal cross-USART self-test starting (USART1<->USART2)")

	p, _ := stm32l4.Take()
	r := rcc.Constrain(p.RCC)
	pins := gpio.Split(p.GPIOA, p.GPIOB, p.GPIOD, &r.AHB2)
	clocks := rcc.ResetClocks()

	s1 := serial.NewUSART1(p.USART1, serial.PA9PA10{
		TX: pins.PA9.IntoAF7(),
		RX: pins.PA10.IntoAF7(),
	}, baud, clocks, &r.APB2)
	s2 := serial.NewUSART2(p.USART2, serial.PA2PA3{
		TX: pins.PA2.IntoAF7(),
		RX: pins.PA3.IntoAF7(),
	}, baud, clocks, &r.APB1R1)

	// RXNEIE is set before Split; TXEIE is armed on demand by BufferedTx.
	s1.Listen(serial.Rxne)
	s2.Listen(serial.Rxne)
	tx1, rx1 := s1.Split()
	tx2, rx2 := s2.Split()
	u1 = port[stm32l4.USART1]{rx: serial.NewBuffered(rx1), tx: serial.NewBufferedTx(tx1)}
	u2 = port[stm32l4.USART2]{rx: serial.NewBuffered(rx2), tx: serial.NewBufferedTx(tx2)}
	interrupt.New(stm32l4.IRQ_USART1, onUSART1).Enable()
	interrupt.New(stm32l4.IRQ_USART2, onUSART2).Enable()

	pass, fail := 0, 0
	run := func(name string, f func() string) {
		println("")
		println("[Test]", name)
		if msg := f(); msg == "" {
			println("  PASS")
			pass++
		} else {
			println("  FAIL:", msg)
			fail++
		}
	}

	short := func(from, to endpoint, msg string) func() string {
		return func() string {
			drain(from)
			drain(to)
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			done := make(chan struct{}, 1)
			go func() { _, _ = from.WriteContext(ctx, []byte(msg)); done <- struct{}{} }()

			got, err := recvExact(ctx, to, len(msg))
			<-done
			if err != nil || string(got) != msg {
				return "mismatch/timeout"
			}
			return ""
		}
	}

	integrity := func(from, to endpoint, gen func(i int) byte, n int) func() string {
		return func() string {
			drain(from)
			drain(to)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			done := make(chan struct{}, 1)
			go func() { _ = sendPattern(ctx, from, gen, n); done <- struct{}{} }()

			h := sha1.New()
			err := recvStream(ctx, to, n, h)
			<-done
			if err != nil {
				return "timeout/short read"
			}
			if string(h.Sum(nil)) != string(sha1Pattern(gen, n)) {
				return "hash mismatch"
			}
			return ""
		}
	}

	run("U1 -> U2 short", short(&u1, &u2, "hello from U1\r\n"))
	run("U2 -> U1 short", short(&u2, &u1, "hi from U2\r\n"))
	run("U1 -> U2 integrity 4KiB (streamed)", integrity(&u1, &u2, patternA, 4*1024))
	run("U2 -> U1 integrity 4KiB (streamed)", integrity(&u2, &u1, patternB, 4*1024))

	println("")
	println("Summary")
	println("  passed =", pass)
	println("  failed =", fail)
	println("  U1 rx errors: overrun =", u1.rx.Errors().Overrun, "dropped =", u1.rx.Errors().Dropped)
	println("  U2 rx errors: overrun =", u2.rx.Errors().Overrun, "dropped =", u2.rx.Errors().Dropped)
	for {
		time.Sleep(time.Hour)
	}
}

// drain empties the software RX ring without blocking.
func drain(u endpoint) { u.Discard() }

// sendPattern generates and queues n bytes of gen in ring-sized chunks.
func sendPattern(ctx context.Context, u endpoint, gen func(i int) byte, n int) error {
	const chunk = 128
	var buf [chunk]byte
	for i := 0; i < n; i += chunk {
		k := min(chunk, n-i)
		for j := 0; j < k; j++ {
			buf[j] = gen(i + j)
		}
		if _, err := u.WriteContext(ctx, buf[:k]); err != nil {
			return err
		}
	}
	return nil
}

// recvExact reads exactly n bytes or fails with ctx.
func recvExact(ctx context.Context, u endpoint, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	var tmp [128]byte
	for len(out) < n {
		m, err := u.ReadContext(ctx, tmp[:min(len(tmp), n-len(out))])
		if err != nil {
			return out, err
		}
		out = append(out, tmp[:m]...)
	}
	return out, nil
}

// recvStream reads n bytes into sink.
func recvStream(ctx context.Context, u endpoint, n int, sink interface{ Write([]byte) (int, error) }) error {
	var tmp [128]byte
	for rem := n; rem > 0; {
		m, err := u.ReadContext(ctx, tmp[:min(len(tmp), rem)])
		if err != nil {
			return err
		}
		_, _ = sink.Write(tmp[:m])
		rem -= m
	}
	return nil
}

func patternA(i int) byte { return byte((i*31 + 0x55) & 0xFF) }
func patternB(i int) byte { return byte((i*17 + 0xA6) & 0xFF) }

func sha1Pattern(gen func(i int) byte, n int) []byte {
	h := sha1.New()
	var buf [128]byte
	for i := 0; i < n; i += len(buf) {
		k := min(len(buf), n-i)
		for j := 0; j < k; j++ {
			buf[j] = gen(i + j)
		}
		_, _ = h.Write(buf[:k])
	}
	return h.Sum(nil)
}
