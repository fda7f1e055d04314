package stm32l4

import "sync/atomic"

// Identity tokens. Each wraps the register block of one peripheral and is
// handed out exactly once by Take; drivers take ownership by value.
type (
	USART1 struct{ regs *USART_Type }
	USART2 struct{ regs *USART_Type }
	DMA1   struct{ regs *DMA_Type }
	RCC    struct{ regs *RCC_Type }
	GPIOA  struct{ regs *GPIO_Type }
	GPIOB  struct{ regs *GPIO_Type }
	GPIOD  struct{ regs *GPIO_Type }
	DWT    struct{ regs *DWT_Type }
	DCB    struct{ regs *DCB_Type }
)

func (p USART1) Registers() *USART_Type { return p.regs }
func (p USART2) Registers() *USART_Type { return p.regs }
func (p DMA1) Registers() *DMA_Type     { return p.regs }
func (p RCC) Registers() *RCC_Type      { return p.regs }
func (p GPIOA) Registers() *GPIO_Type   { return p.regs }
func (p GPIOB) Registers() *GPIO_Type   { return p.regs }
func (p GPIOD) Registers() *GPIO_Type   { return p.regs }
func (p DWT) Registers() *DWT_Type      { return p.regs }
func (p DCB) Registers() *DCB_Type      { return p.regs }

// Peripherals is the set of peripherals this module drives.
type Peripherals struct {
	USART1 USART1
	USART2 USART2
	DMA1   DMA1
	RCC    RCC
	GPIOA  GPIOA
	GPIOB  GPIOB
	GPIOD  GPIOD
	DWT    DWT
	DCB    DCB
}

var taken atomic.Bool

// Take returns the peripherals on the first call and (nil, false) on every
// call after that.
func Take() (*Peripherals, bool) {
	if !taken.CompareAndSwap(false, true) {
		return nil, false
	}
	return newPeripherals(), true
}
