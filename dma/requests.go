package dma

import "github.com/jangala-dev/tinygo-l4hal/stm32l4"

// Request mapping (RM0394 table 41). A channel type having RxRequest for a
// USART identity is what lets it receive that USART's data.

// RxRequest is the CSELR code routing USART1_RX to channel 5.
func (*C5) RxRequest(stm32l4.USART1) uint8 { return 2 }

// RxRequest is the CSELR code routing USART2_RX to channel 6.
func (*C6) RxRequest(stm32l4.USART2) uint8 { return 2 }
