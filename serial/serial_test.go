package serial

import (
	"errors"
	"testing"

	"github.com/jangala-dev/tinygo-l4hal/gpio"
	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// newTestSerial returns USART2 on PA2/PA3 at 115200 over fresh simulated
// peripherals (no hardware).
func newTestSerial(t *testing.T) (*Serial[stm32l4.USART2, PA2PA3], *stm32l4.Peripherals) {
	t.Helper()
	p := stm32l4.Simulated()
	r := rcc.Constrain(p.RCC)
	pins := PA2PA3{TX: gpio.PA2AF7{}, RX: gpio.PA3AF7{}}
	s := NewUSART2(p.USART2, pins, 115200, rcc.NewClocks(rcc.MHz(80), rcc.MHz(80), rcc.MHz(80)), &r.APB1R1)
	return s, p
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	f()
}

func TestConstructProgramsUSART(t *testing.T) {
	s, p := newTestSerial(t)
	regs := p.USART2.Registers()

	if got, want := regs.BRR.Peek(), uint32(80_000_000/115200); got != want {
		t.Fatalf("BRR=%d want %d", got, want)
	}
	if got, want := regs.CR1.Peek(), uint32(stm32l4.USART_CR1_UE|stm32l4.USART_CR1_RE|stm32l4.USART_CR1_TE); got != want {
		t.Fatalf("CR1=%#x want %#x", got, want)
	}
	if p.RCC.Registers().APB1ENR1.Peek()&stm32l4.RCC_APB1ENR1_USART2EN == 0 {
		t.Fatal("USART2 clock not enabled")
	}
	if p.RCC.Registers().APB1RSTR1.Stores() != 2 {
		t.Fatalf("reset pulse: got %d stores, want set+clear", p.RCC.Registers().APB1RSTR1.Stores())
	}
	if s.Remap() != 0 {
		t.Fatalf("remap=%d want 0", s.Remap())
	}
}

func TestUSART1UsesPCLK2(t *testing.T) {
	p := stm32l4.Simulated()
	r := rcc.Constrain(p.RCC)
	clocks := rcc.NewClocks(rcc.MHz(80), rcc.MHz(10), rcc.MHz(40))
	s := NewUSART1(p.USART1, PB6PB7{}, 9600, clocks, &r.APB2)

	if got, want := p.USART1.Registers().BRR.Peek(), uint32(40_000_000/9600); got != want {
		t.Fatalf("BRR=%d want %d (PCLK2)", got, want)
	}
	if p.RCC.Registers().APB2ENR.Peek()&stm32l4.RCC_APB2ENR_USART1EN == 0 {
		t.Fatal("USART1 clock not enabled")
	}
	if s.Remap() != 1 {
		t.Fatalf("PB6/PB7 remap=%d want 1", s.Remap())
	}
}

func TestBaudDivisorBoundary(t *testing.T) {
	for _, pclk := range []rcc.Hertz{rcc.MHz(4), rcc.MHz(16), rcc.MHz(80), rcc.Hertz(16 * 9600)} {
		clocks := rcc.NewClocks(pclk, pclk, pclk)
		limit := rcc.Bps(uint32(pclk) / 16)

		// pclk/baud == 16 is the fastest accepted rate.
		p := stm32l4.Simulated()
		r := rcc.Constrain(p.RCC)
		_ = NewUSART2(p.USART2, PA2PA3{}, limit, clocks, &r.APB1R1)
		if got := p.USART2.Registers().BRR.Peek(); got != 16 {
			t.Fatalf("pclk=%d: BRR=%d want 16", pclk, got)
		}

		// One bps faster gives a divisor of 15.
		p = stm32l4.Simulated()
		r = rcc.Constrain(p.RCC)
		mustPanic(t, "divisor < 16", func() {
			_ = NewUSART2(p.USART2, PA2PA3{}, limit+1, clocks, &r.APB1R1)
		})
		if p.USART2.Registers().BRR.Stores() != 0 || p.USART2.Registers().CR1.Stores() != 0 {
			t.Fatalf("pclk=%d: rejected configuration touched the USART", pclk)
		}
	}
	mustPanic(t, "zero baud", func() {
		p := stm32l4.Simulated()
		r := rcc.Constrain(p.RCC)
		_ = NewUSART2(p.USART2, PA2PA3{}, 0, rcc.ResetClocks(), &r.APB1R1)
	})
}

func TestListenUnlisten(t *testing.T) {
	s, p := newTestSerial(t)
	cr1 := &p.USART2.Registers().CR1

	s.Listen(Rxne)
	s.Listen(Txe)
	if cr1.Peek()&(stm32l4.USART_CR1_RXNEIE|stm32l4.USART_CR1_TXEIE) != stm32l4.USART_CR1_RXNEIE|stm32l4.USART_CR1_TXEIE {
		t.Fatalf("CR1=%#x: both interrupts should be enabled", cr1.Peek())
	}
	s.Unlisten(Txe)
	if cr1.Peek()&stm32l4.USART_CR1_TXEIE != 0 || cr1.Peek()&stm32l4.USART_CR1_RXNEIE == 0 {
		t.Fatalf("CR1=%#x: only TXEIE should be cleared", cr1.Peek())
	}
	if cr1.Peek()&stm32l4.USART_CR1_UE == 0 {
		t.Fatal("Listen/Unlisten must keep UE")
	}
}

func TestFreeReturnsPinsAndDisables(t *testing.T) {
	s, p := newTestSerial(t)
	u, pins := s.Free()
	if u.Registers() != p.USART2.Registers() {
		t.Fatal("Free returned a different peripheral")
	}
	_ = pins
	if p.USART2.Registers().CR1.Peek() != 0 {
		t.Fatalf("CR1=%#x after Free, want 0", p.USART2.Registers().CR1.Peek())
	}
	mustPanic(t, "Listen after Free", func() { s.Listen(Rxne) })
	mustPanic(t, "Split after Free", func() { s.Split() })
}

func TestSplitConsumes(t *testing.T) {
	s, _ := newTestSerial(t)
	_, _ = s.Split()
	mustPanic(t, "Split twice", func() { s.Split() })
	mustPanic(t, "Free after Split", func() { s.Free() })
}

func TestReadReturnsByte(t *testing.T) {
	s, p := newTestSerial(t)
	_, rx := s.Split()
	regs := p.USART2.Registers()

	if _, err := rx.Read(); err != nb.ErrWouldBlock {
		t.Fatalf("empty read: err=%v want ErrWouldBlock", err)
	}
	if regs.RDR.Loads() != 0 {
		t.Fatal("WouldBlock path must not touch RDR")
	}

	stm32l4.SimReceive(regs, 'A')
	if !rx.Pending() {
		t.Fatal("Pending should report RXNE")
	}
	b, err := rx.Read()
	if err != nil || b != 'A' {
		t.Fatalf("got %q,%v want 'A',nil", b, err)
	}
	if regs.RDR.Loads() != 1 {
		t.Fatalf("RDR loads=%d want exactly 1", regs.RDR.Loads())
	}
	if _, err := rx.Read(); err != nb.ErrWouldBlock {
		t.Fatalf("RXNE should clear after the data read, err=%v", err)
	}
}

func TestReadErrorPriority(t *testing.T) {
	flags := []uint32{
		stm32l4.USART_ISR_PE,
		stm32l4.USART_ISR_FE,
		stm32l4.USART_ISR_NF,
		stm32l4.USART_ISR_ORE,
	}
	errs := []error{ErrParity, ErrFraming, ErrNoise, ErrOverrun}

	// Every combination of the four error flags, with and without RXNE.
	for set := 0; set < 1<<len(flags); set++ {
		for _, rxne := range []bool{false, true} {
			s, p := newTestSerial(t)
			_, rx := s.Split()
			regs := p.USART2.Registers()

			var isr uint32
			var want error = nb.ErrWouldBlock
			for i := len(flags) - 1; i >= 0; i-- {
				if set&(1<<i) != 0 {
					isr |= flags[i]
					want = errs[i]
				}
			}
			if rxne {
				regs.RDR.Poke('z')
				isr |= stm32l4.USART_ISR_RXNE
				if set == 0 {
					want = nil
				}
			}
			stm32l4.SimFlags(regs, isr)

			b, err := rx.Read()
			if !errors.Is(err, want) && err != want {
				t.Fatalf("ISR=%#x: err=%v want %v", isr, err, want)
			}
			if want == nil && b != 'z' {
				t.Fatalf("ISR=%#x: got %q want 'z'", isr, b)
			}
			if want != nil && regs.RDR.Loads() != 0 {
				t.Fatalf("ISR=%#x: error path must not read RDR", isr)
			}
			if regs.ISR.Loads() != 1 {
				t.Fatalf("ISR=%#x: status sampled %d times, want once", isr, regs.ISR.Loads())
			}
		}
	}
}

func TestParityWinsOverFramingAndReady(t *testing.T) {
	s, p := newTestSerial(t)
	_, rx := s.Split()
	regs := p.USART2.Registers()
	stm32l4.SimFlags(regs, stm32l4.USART_ISR_PE|stm32l4.USART_ISR_FE|stm32l4.USART_ISR_RXNE)

	if _, err := rx.Read(); err != ErrParity {
		t.Fatalf("err=%v want ErrParity", err)
	}
	// No internal recovery: the error persists until cleared.
	if _, err := rx.Read(); err != ErrParity {
		t.Fatalf("second read err=%v want ErrParity", err)
	}
	rx.ClearErrors()
	if _, err := rx.Read(); err != nil {
		t.Fatalf("after ClearErrors err=%v want nil", err)
	}
}

func TestWriteWouldBlockLeavesTDR(t *testing.T) {
	s, p := newTestSerial(t)
	tx, _ := s.Split()
	regs := p.USART2.Registers()

	if v := tx.Write('a'); v.WouldBlock() {
		t.Fatal("first write should be accepted")
	}
	if regs.TDR.Peek() != 'a' || regs.TDR.Stores() != 1 {
		t.Fatalf("TDR=%#x stores=%d", regs.TDR.Peek(), regs.TDR.Stores())
	}

	// TXE is now clear.
	if v := tx.Write('b'); !v.WouldBlock() {
		t.Fatal("write with TXE clear should block")
	}
	if regs.TDR.Peek() != 'a' || regs.TDR.Stores() != 1 {
		t.Fatal("blocked write must not touch TDR")
	}
	if v := tx.Flush(); !v.WouldBlock() {
		t.Fatal("flush before TC should block")
	}

	stm32l4.SimTransmitDone(regs)
	if v := tx.Flush(); v.WouldBlock() {
		t.Fatal("flush after TC should succeed")
	}
	if v := tx.Write('b'); v.WouldBlock() || regs.TDR.Peek() != 'b' {
		t.Fatal("write after TXE should be accepted")
	}
}

func TestSplitHalvesTouchDisjointRegisters(t *testing.T) {
	s, p := newTestSerial(t)
	tx, rx := s.Split()
	regs := p.USART2.Registers()
	for _, r := range []interface{ ResetCounts() }{&regs.CR1, &regs.CR3, &regs.BRR, &regs.ICR, &regs.RDR, &regs.TDR} {
		r.ResetCounts()
	}

	stm32l4.SimReceive(regs, 'q')
	stm32l4.SimFlags(regs, stm32l4.USART_ISR_ORE)
	_, _ = rx.Read()
	rx.ClearErrors()
	_, _ = rx.Read()
	_ = rx.Pending()
	if regs.TDR.Loads()+regs.TDR.Stores() != 0 {
		t.Fatal("Rx touched TDR")
	}

	_ = tx.Write('w')
	_ = tx.Write('w')
	_ = tx.Flush()
	if regs.RDR.Loads() != 1 || regs.RDR.Stores() != 0 {
		t.Fatalf("Tx touched RDR (loads=%d)", regs.RDR.Loads())
	}
	if regs.ICR.Stores() != 1 {
		t.Fatalf("Tx touched ICR (stores=%d)", regs.ICR.Stores())
	}
	for name, r := range map[string]interface{ Stores() uint32 }{"CR1": &regs.CR1, "CR3": &regs.CR3, "BRR": &regs.BRR} {
		if r.Stores() != 0 {
			t.Fatalf("a half wrote %s", name)
		}
	}
}
