// Package gpio produces pin capability tokens. A token such as PA9AF7 is the
// proof that pin PA9 has been switched to alternate function 7; drivers that
// need the pin in that mode take the token instead of re-checking the port.
package gpio

import (
	"github.com/jangala-dev/tinygo-l4hal/rcc"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

const (
	modeAlternate = 0b10
	speedHigh     = 0b10
	pullUp        = 0b01
)

// Parts are the pins of ports A, B and D that carry a USART function.
type Parts struct {
	PA2  PA2
	PA3  PA3
	PA9  PA9
	PA10 PA10
	PB6  PB6
	PB7  PB7
	PD5  PD5
	PD6  PD6
}

// Split enables ports A, B and D and hands out their pins in reset state.
func Split(a stm32l4.GPIOA, b stm32l4.GPIOB, d stm32l4.GPIOD, ahb2 *rcc.AHB2) *Parts {
	ahb2.Enable(stm32l4.RCC_AHB2ENR_GPIOAEN | stm32l4.RCC_AHB2ENR_GPIOBEN | stm32l4.RCC_AHB2ENR_GPIODEN)
	pa, pb, pd := a.Registers(), b.Registers(), d.Registers()
	return &Parts{
		PA2:  PA2{pa},
		PA3:  PA3{pa},
		PA9:  PA9{pa},
		PA10: PA10{pa},
		PB6:  PB6{pb},
		PB7:  PB7{pb},
		PD5:  PD5{pd},
		PD6:  PD6{pd},
	}
}

// setAlternate routes pin n of port to alternate function af.
// AFR is written before MODER so the pin never drives a stale function.
func setAlternate(port *stm32l4.GPIO_Type, n uint8, af uint32) {
	if n < 8 {
		port.AFRL.ReplaceBits(af, 0xF, n*4)
	} else {
		port.AFRH.ReplaceBits(af, 0xF, (n-8)*4)
	}
	port.OSPEEDR.ReplaceBits(speedHigh, 0x3, n*2)
	port.MODER.ReplaceBits(modeAlternate, 0x3, n*2)
}

// setPullUp enables the pin's pull-up, which keeps an idle RX line high.
func setPullUp(port *stm32l4.GPIO_Type, n uint8) {
	port.PUPDR.ReplaceBits(pullUp, 0x3, n*2)
}
