//go:build stm32l4

package stm32l4

import "unsafe"

// Base addresses.
const (
	usart1Base = 0x40013800
	usart2Base = 0x40004400
	dma1Base   = 0x40020000
	rccBase    = 0x40021000
	gpioaBase  = 0x48000000
	gpiobBase  = 0x48000400
	gpiodBase  = 0x48000C00
	dwtBase    = 0xE0001000
	dcbBase    = 0xE000EDF0
)

func newPeripherals() *Peripherals {
	return &Peripherals{
		USART1: USART1{(*USART_Type)(unsafe.Pointer(uintptr(usart1Base)))},
		USART2: USART2{(*USART_Type)(unsafe.Pointer(uintptr(usart2Base)))},
		DMA1:   DMA1{(*DMA_Type)(unsafe.Pointer(uintptr(dma1Base)))},
		RCC:    RCC{(*RCC_Type)(unsafe.Pointer(uintptr(rccBase)))},
		GPIOA:  GPIOA{(*GPIO_Type)(unsafe.Pointer(uintptr(gpioaBase)))},
		GPIOB:  GPIOB{(*GPIO_Type)(unsafe.Pointer(uintptr(gpiobBase)))},
		GPIOD:  GPIOD{(*GPIO_Type)(unsafe.Pointer(uintptr(gpiodBase)))},
		DWT:    DWT{(*DWT_Type)(unsafe.Pointer(uintptr(dwtBase)))},
		DCB:    DCB{(*DCB_Type)(unsafe.Pointer(uintptr(dcbBase)))},
	}
}
