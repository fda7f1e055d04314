//go:build stm32l4

// usart_regs dumps the USART2 and DMA1 channel 6 registers before and after
// configuration, to check what the drivers program on real silicon.
package main

import (
	"time"

	"github.com/jangala-dev/tinygo-l4hal/dma"
	"github.com/jangala-dev/tinygo-l4hal/gpio"
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/serial"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

var rxBuf [2][32]byte

func main() {
	time.Sleep(2 * time.Second)

	p, ok := stm32l4.Take()
	if !ok {
		panic("peripherals already taken")
	}
	u := p.USART2.Registers()
	d := p.DMA1.Registers()

	println("Before configure:")
	report(u, d)

	r := rcc.Constrain(p.RCC)
	pins := gpio.Split(p.GPIOA, p.GPIOB, p.GPIOD, &r.AHB2)
	s := serial.NewUSART2(p.USART2, serial.PA2PA3{
		TX: pins.PA2.IntoAF7(),
		RX: pins.PA3.IntoAF7(),
	}, 115200, rcc.ResetClocks(), &r.APB1R1)

	println("After NewUSART2:")
	report(u, d)

	_, rx := s.Split()
	chans := dma.Split(p.DMA1, &r.AHB1)
	serial.CircRead(rx, chans.C6, &rxBuf)

	println("After CircRead (expect CNDTR=0x40, CR3.DMAR):")
	report(u, d)

	for {
		time.Sleep(time.Second)
	}
}

func report(u *stm32l4.USART_Type, d *stm32l4.DMA_Type) {
	ch := &d.CH[5]
	println("-----------------------------")
	print("CR1   = 0x")
	printlnHex(u.CR1.Get())
	print("CR3   = 0x")
	printlnHex(u.CR3.Get())
	print("BRR   = 0x")
	printlnHex(u.BRR.Get())
	print("ISR   = 0x")
	printlnHex(u.ISR.Get())
	print("CCR6  = 0x")
	printlnHex(ch.CCR.Get())
	print("CNDTR6= 0x")
	printlnHex(ch.CNDTR.Get())
	print("CPAR6 = 0x")
	printlnHex(ch.CPAR.Get())
	print("CMAR6 = 0x")
	printlnHex(ch.CMAR.Get())
	print("CSELR = 0x")
	printlnHex(d.CSELR.Get())
}

func printlnHex(v uint32) {
	const hexdigits = "0123456789abcdef"
	var b [8]byte
	for i := 0; i < 8; i++ {
		shift := uint(28 - 4*i)
		b[i] = hexdigits[(v>>shift)&0xF]
	}
	println(string(b[:]))
}
