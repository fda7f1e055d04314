//go:build stm32l4

// dma_echo streams USART2 receive data into a double buffer with DMA1
// channel 6 in circular mode and sends every completed half back on TX.
// Input arrives in blocks of segmentLen bytes; partial blocks wait until
// the half fills.
package main

import (
	"github.com/jangala-dev/tinygo-l4hal/dma"
	"github.com/jangala-dev/tinygo-l4hal/gpio"
	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/serial"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

const (
	baud       = 115200
	segmentLen = 16
)

// The DMA writes here for the life of the program.
var rxBuf [2][segmentLen]byte

func main() {
	p, ok := stm32l4.Take()
	if !ok {
		panic("peripherals already taken")
	}
	r := rcc.Constrain(p.RCC)
	clocks := rcc.ResetClocks()
	pins := gpio.Split(p.GPIOA, p.GPIOB, p.GPIOD, &r.AHB2)
	chans := dma.Split(p.DMA1, &r.AHB1)

	s := serial.NewUSART2(p.USART2, serial.PA2PA3{
		TX: pins.PA2.IntoAF7(),
		RX: pins.PA3.IntoAF7(),
	}, baud, clocks, &r.APB1R1)
	tx, rx := s.Split()

	circ := serial.CircRead(rx, chans.C6, &rxBuf)
	println("dma_echo: streaming", 2*segmentLen, "byte cycle on C6")

	var overruns uint32
	for {
		_, err := circ.Poll(func(seg []byte, h dma.Half) {
			for _, c := range seg {
				nb.Block(func() nb.Void { return tx.Write(c) })
			}
		})
		if err == dma.ErrOverrun {
			overruns++
			println("dma_echo: overrun", overruns)
			circ.Resync()
		}
	}
}
