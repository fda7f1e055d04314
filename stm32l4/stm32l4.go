// Package stm32l4 describes the STM32L4x2 peripherals used by this module:
// register block layouts, bit constants and peripheral identity tokens.
//
// Layouts follow RM0394. Register names and constants use the same shape as
// TinyGo's generated device packages so code reads the same as code written
// against device/stm32.
package stm32l4

import "github.com/jangala-dev/tinygo-l4hal/mmio"

// Interrupt numbers.
const (
	IRQ_DMA1_CH5 = 15
	IRQ_DMA1_CH6 = 16
	IRQ_USART1   = 37
	IRQ_USART2   = 38
)

// USART_Type is a USART register block.
type USART_Type struct {
	CR1  mmio.Reg32 // 0x00
	CR2  mmio.Reg32 // 0x04
	CR3  mmio.Reg32 // 0x08
	BRR  mmio.Reg32 // 0x0C
	GTPR mmio.Reg32 // 0x10
	RTOR mmio.Reg32 // 0x14
	RQR  mmio.Reg32 // 0x18
	ISR  mmio.Reg32 // 0x1C
	ICR  mmio.Reg32 // 0x20
	RDR  mmio.Reg32 // 0x24
	TDR  mmio.Reg32 // 0x28
}

const (
	USART_CR1_UE     = 1 << 0
	USART_CR1_UESM   = 1 << 1
	USART_CR1_RE     = 1 << 2
	USART_CR1_TE     = 1 << 3
	USART_CR1_IDLEIE = 1 << 4
	USART_CR1_RXNEIE = 1 << 5
	USART_CR1_TCIE   = 1 << 6
	USART_CR1_TXEIE  = 1 << 7
	USART_CR1_PEIE   = 1 << 8

	USART_CR3_EIE  = 1 << 0
	USART_CR3_DMAR = 1 << 6
	USART_CR3_DMAT = 1 << 7

	USART_ISR_PE   = 1 << 0
	USART_ISR_FE   = 1 << 1
	USART_ISR_NF   = 1 << 2
	USART_ISR_ORE  = 1 << 3
	USART_ISR_IDLE = 1 << 4
	USART_ISR_RXNE = 1 << 5
	USART_ISR_TC   = 1 << 6
	USART_ISR_TXE  = 1 << 7

	USART_ICR_PECF   = 1 << 0
	USART_ICR_FECF   = 1 << 1
	USART_ICR_NCF    = 1 << 2
	USART_ICR_ORECF  = 1 << 3
	USART_ICR_IDLECF = 1 << 4
	USART_ICR_TCCF   = 1 << 6
)

// DMA_Channel_Type is one DMA channel's register set.
type DMA_Channel_Type struct {
	CCR   mmio.Reg32
	CNDTR mmio.Reg32
	CPAR  mmio.Reg32
	CMAR  mmio.Reg32
	_     [1]uint32
}

// DMA_Type is a DMA controller register block.
type DMA_Type struct {
	ISR   mmio.Reg32          // 0x00
	IFCR  mmio.Reg32          // 0x04
	CH    [7]DMA_Channel_Type // 0x08 .. 0x93
	_     [5]uint32
	CSELR mmio.Reg32 // 0xA8
}

const (
	DMA_CCR_EN        = 1 << 0
	DMA_CCR_TCIE      = 1 << 1
	DMA_CCR_HTIE      = 1 << 2
	DMA_CCR_TEIE      = 1 << 3
	DMA_CCR_DIR       = 1 << 4
	DMA_CCR_CIRC      = 1 << 5
	DMA_CCR_PINC      = 1 << 6
	DMA_CCR_MINC      = 1 << 7
	DMA_CCR_PSIZE_Pos = 8
	DMA_CCR_PSIZE_Msk = 0x3 << DMA_CCR_PSIZE_Pos
	DMA_CCR_MSIZE_Pos = 10
	DMA_CCR_MSIZE_Msk = 0x3 << DMA_CCR_MSIZE_Pos
	DMA_CCR_PL_Pos    = 12
	DMA_CCR_PL_Msk    = 0x3 << DMA_CCR_PL_Pos
	DMA_CCR_MEM2MEM   = 1 << 14

	// Per-channel flags in ISR/IFCR; shift left by 4*(n-1) for channel n.
	DMA_ISR_GIF  = 1 << 0
	DMA_ISR_TCIF = 1 << 1
	DMA_ISR_HTIF = 1 << 2
	DMA_ISR_TEIF = 1 << 3
)

// RCC_Type is the reset and clock control register block, up to APB2ENR.
type RCC_Type struct {
	CR          mmio.Reg32 // 0x00
	ICSCR       mmio.Reg32 // 0x04
	CFGR        mmio.Reg32 // 0x08
	PLLCFGR     mmio.Reg32 // 0x0C
	PLLSAI1CFGR mmio.Reg32 // 0x10
	_           [1]uint32
	CIER        mmio.Reg32 // 0x18
	CIFR        mmio.Reg32 // 0x1C
	CICR        mmio.Reg32 // 0x20
	_           [1]uint32
	AHB1RSTR    mmio.Reg32 // 0x28
	AHB2RSTR    mmio.Reg32 // 0x2C
	AHB3RSTR    mmio.Reg32 // 0x30
	_           [1]uint32
	APB1RSTR1   mmio.Reg32 // 0x38
	APB1RSTR2   mmio.Reg32 // 0x3C
	APB2RSTR    mmio.Reg32 // 0x40
	_           [1]uint32
	AHB1ENR     mmio.Reg32 // 0x48
	AHB2ENR     mmio.Reg32 // 0x4C
	AHB3ENR     mmio.Reg32 // 0x50
	_           [1]uint32
	APB1ENR1    mmio.Reg32 // 0x58
	APB1ENR2    mmio.Reg32 // 0x5C
	APB2ENR     mmio.Reg32 // 0x60
}

const (
	RCC_AHB1ENR_DMA1EN   = 1 << 0
	RCC_AHB1RSTR_DMA1RST = 1 << 0

	RCC_AHB2ENR_GPIOAEN   = 1 << 0
	RCC_AHB2ENR_GPIOBEN   = 1 << 1
	RCC_AHB2ENR_GPIODEN   = 1 << 3
	RCC_AHB2RSTR_GPIOARST = 1 << 0
	RCC_AHB2RSTR_GPIOBRST = 1 << 1
	RCC_AHB2RSTR_GPIODRST = 1 << 3

	RCC_APB1ENR1_USART2EN   = 1 << 17
	RCC_APB1RSTR1_USART2RST = 1 << 17

	RCC_APB2ENR_USART1EN   = 1 << 14
	RCC_APB2RSTR_USART1RST = 1 << 14
)

// GPIO_Type is a GPIO port register block.
type GPIO_Type struct {
	MODER   mmio.Reg32 // 0x00
	OTYPER  mmio.Reg32 // 0x04
	OSPEEDR mmio.Reg32 // 0x08
	PUPDR   mmio.Reg32 // 0x0C
	IDR     mmio.Reg32 // 0x10
	ODR     mmio.Reg32 // 0x14
	BSRR    mmio.Reg32 // 0x18
	LCKR    mmio.Reg32 // 0x1C
	AFRL    mmio.Reg32 // 0x20
	AFRH    mmio.Reg32 // 0x24
}

// DWT_Type is the Cortex-M data watchpoint and trace unit, up to CYCCNT.
type DWT_Type struct {
	CTRL   mmio.Reg32 // 0x00
	CYCCNT mmio.Reg32 // 0x04
}

const DWT_CTRL_CYCCNTENA = 1 << 0

// DCB_Type is the Cortex-M debug control block.
type DCB_Type struct {
	DHCSR mmio.Reg32 // 0x00
	DCRSR mmio.Reg32 // 0x04
	DCRDR mmio.Reg32 // 0x08
	DEMCR mmio.Reg32 // 0x0C
}

const DCB_DEMCR_TRCENA = 1 << 24
