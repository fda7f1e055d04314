//go:build stm32l4

// serial_vcom exercises USART2 on PD5/PD6 (the ST-LINK virtual COM port on
// the discovery boards): it prints a banner, sends five 'X' bytes and waits
// for one byte to come back, then echoes whatever arrives. Bridge TX to RX,
// or type X in a terminal.
package main

import (
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/jangala-dev/tinygo-l4hal/gpio"
	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/serial"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

const (
	baud = 115200
	sent = 'X'
)

func main() {
	p, ok := stm32l4.Take()
	if !ok {
		panic("peripherals already taken")
	}
	r := rcc.Constrain(p.RCC)
	// Clocks as left by reset: MSI at 4 MHz on every bus.
	clocks := rcc.ResetClocks()
	pins := gpio.Split(p.GPIOA, p.GPIOB, p.GPIOD, &r.AHB2)

	s := serial.NewUSART2(p.USART2, serial.PD5PD6{
		TX: pins.PD5.IntoAF7(),
		RX: pins.PD6.IntoAF7(),
	}, baud, clocks, &r.APB1R1)
	tx, rx := s.Split()
	port := serial.NewPort(tx, rx)

	banner(port, clocks)
	for i := 0; i < 5; i++ {
		nb.Block(func() nb.Void { return tx.Write(sent) })
	}

	// A virtual COM port can report a framing error on the first byte.
	received, err := nb.BlockValue(rx.Read)
	if err != nil {
		println("vcom: receive error:", err.Error())
		rx.ClearErrors()
		received, err = nb.BlockValue(rx.Read)
	}
	switch {
	case err != nil:
		println("vcom: receive error:", err.Error())
	case received != sent:
		println("vcom: got", received, "want", sent)
	default:
		println("vcom: ok")
	}
	port.Flush()

	echo(port, rx.ClearErrors)
}

// banner announces the link on any UART.
func banner(u drivers.UART, clocks rcc.Clocks) {
	fmt.Fprintf(u, "vcom: sysclk %d Hz, %d bps\r\n", clocks.SysClk(), baud)
}

// echo writes back every byte read from u. A receive error latches in the
// USART until cleared, so clearErrors runs before reading on.
func echo(u drivers.UART, clearErrors func()) {
	buf := make([]byte, 16)
	for {
		n, err := u.Read(buf)
		if n > 0 {
			u.Write(buf[:n])
		}
		if err != nil {
			println("vcom: receive error:", err.Error())
			clearErrors()
		}
	}
}
