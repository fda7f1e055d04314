package serial

import (
	"github.com/jangala-dev/tinygo-l4hal/gpio"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// Pins is satisfied only by the pin pairs wired to USART U. The method is
// unexported so the set of valid pairs is closed; passing any other pair to
// a constructor does not compile.
type Pins[U Instance] interface {
	remap(U) uint8
}

// USART1 on PA9 (TX) / PA10 (RX).
type PA9PA10 struct {
	TX gpio.PA9AF7
	RX gpio.PA10AF7
}

func (PA9PA10) remap(stm32l4.USART1) uint8 { return 0 }

// USART1 on PB6 (TX) / PB7 (RX).
type PB6PB7 struct {
	TX gpio.PB6AF7
	RX gpio.PB7AF7
}

func (PB6PB7) remap(stm32l4.USART1) uint8 { return 1 }

// USART2 on PA2 (TX) / PA3 (RX).
type PA2PA3 struct {
	TX gpio.PA2AF7
	RX gpio.PA3AF7
}

func (PA2PA3) remap(stm32l4.USART2) uint8 { return 0 }

// USART2 on PD5 (TX) / PD6 (RX).
type PD5PD6 struct {
	TX gpio.PD5AF7
	RX gpio.PD6AF7
}

func (PD5PD6) remap(stm32l4.USART2) uint8 { return 0 }
