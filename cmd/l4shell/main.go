//go:build stm32l4

// l4shell is a line shell on USART2 (PA2/PA3). Receive runs from the USART
// interrupt into a software ring; replies go out through blocking writes.
// Each reply ends with "ok" or "error: ...", which is what l4link expects.
package main

import (
	"context"
	"runtime/interrupt"
	"time"

	"github.com/jangala-dev/tinygo-l4hal/cortexm"
	"github.com/jangala-dev/tinygo-l4hal/gpio"
	"github.com/jangala-dev/tinygo-l4hal/monotimer"
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/serial"
	"github.com/jangala-dev/tinygo-l4hal/shell"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

const baud = 115200

var rxRing *serial.Buffered[stm32l4.USART2]

func onUSART2(interrupt.Interrupt) { rxRing.HandleInterrupt() }

func main() {
	// Give the monitor time to attach.
	time.Sleep(time.Second)

	p, ok := stm32l4.Take()
	if !ok {
		panic("peripherals already taken")
	}
	r := rcc.Constrain(p.RCC)
	clocks := rcc.ResetClocks()
	pins := gpio.Split(p.GPIOA, p.GPIOB, p.GPIOD, &r.AHB2)

	s := serial.NewUSART2(p.USART2, serial.PA2PA3{
		TX: pins.PA2.IntoAF7(),
		RX: pins.PA3.IntoAF7(),
	}, baud, clocks, &r.APB1R1)
	s.Listen(serial.Rxne)
	tx, rx := s.Split()

	// The ring must exist before the NVIC line is enabled.
	rxRing = serial.NewBuffered(rx)
	intr := interrupt.New(stm32l4.IRQ_USART2, onUSART2)
	intr.Enable()

	mono := monotimer.New(cortexm.NewDWT(p.DWT, p.DCB), clocks)
	out := serial.NewWriter(tx)

	sh := shell.New()
	register(sh, mono, rxRing)

	// Whatever arrived while the line settled is not a command.
	if n := rxRing.Discard(); n > 0 {
		println("l4shell: dropped", n, "bytes received before ready")
	}
	println("l4shell: ready at", baud, "bps, sysclk", uint32(clocks.SysClk()))
	out.WriteString("l4shell ready\r\n")
	if err := sh.Serve(context.Background(), rxRing, out); err != nil {
		println("l4shell: serve:", err.Error())
	}
	for {
	}
}
