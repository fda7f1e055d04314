//go:build !stm32l4

package stm32l4

// Host shim: heap-backed register blocks with the hardware side effects the
// drivers depend on.

func newPeripherals() *Peripherals { return Simulated() }

// Simulated returns a fresh, independent set of simulated peripherals.
func Simulated() *Peripherals {
	return &Peripherals{
		USART1: USART1{newSimUSART()},
		USART2: USART2{newSimUSART()},
		DMA1:   DMA1{newSimDMA()},
		RCC:    RCC{new(RCC_Type)},
		GPIOA:  GPIOA{new(GPIO_Type)},
		GPIOB:  GPIOB{new(GPIO_Type)},
		GPIOD:  GPIOD{new(GPIO_Type)},
		DWT:    DWT{new(DWT_Type)},
		DCB:    DCB{new(DCB_Type)},
	}
}

const icrClearable = USART_ICR_PECF | USART_ICR_FECF | USART_ICR_NCF |
	USART_ICR_ORECF | USART_ICR_IDLECF | USART_ICR_TCCF

func newSimUSART() *USART_Type {
	u := new(USART_Type)
	// Transmitter idle after reset.
	u.ISR.Poke(USART_ISR_TXE | USART_ISR_TC)
	// Reading RDR clears RXNE.
	u.RDR.OnLoad(func(uint32) {
		u.ISR.Poke(u.ISR.Peek() &^ USART_ISR_RXNE)
	})
	// Writing TDR starts a frame: TXE and TC drop until SimTransmitDone.
	u.TDR.OnStore(func(uint32) {
		u.ISR.Poke(u.ISR.Peek() &^ (USART_ISR_TXE | USART_ISR_TC))
	})
	// ICR is write-1-to-clear; its bits line up with ISR.
	u.ICR.OnStore(func(v uint32) {
		u.ISR.Poke(u.ISR.Peek() &^ (v & icrClearable))
	})
	return u
}

func newSimDMA() *DMA_Type {
	d := new(DMA_Type)
	// IFCR is write-1-to-clear against ISR.
	d.IFCR.OnStore(func(v uint32) {
		d.ISR.Poke(d.ISR.Peek() &^ v)
	})
	return d
}

// SimReceive latches b into RDR and raises RXNE, as a received frame would.
func SimReceive(u *USART_Type, b byte) {
	u.RDR.Poke(uint32(b))
	u.ISR.Poke(u.ISR.Peek() | USART_ISR_RXNE)
}

// SimTransmitDone raises TXE and TC, as the end of a frame would.
func SimTransmitDone(u *USART_Type) {
	u.ISR.Poke(u.ISR.Peek() | USART_ISR_TXE | USART_ISR_TC)
}

// SimFlags raises the given ISR bits.
func SimFlags(u *USART_Type, bits uint32) {
	u.ISR.Poke(u.ISR.Peek() | bits)
}

// SimDMAFlags raises the given flags for channel n (1..7).
func SimDMAFlags(d *DMA_Type, n uint8, flags uint32) {
	d.ISR.Poke(d.ISR.Peek() | flags<<(4*(n-1)))
}
