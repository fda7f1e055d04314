package serial

import (
	"github.com/jangala-dev/tinygo-l4hal/dma"
	"github.com/jangala-dev/tinygo-l4hal/mmio"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// RxChannel is a DMA channel that can carry the receive requests of U.
type RxChannel[U Instance] interface {
	Raw() *dma.Channel
	RxRequest(U) uint8
}

// CircRead consumes rx and starts ch streaming received bytes into buf in
// circular mode, one cycle covering both segments. buf must stay reachable
// for as long as the transfer runs; a package-level array is the usual home.
func CircRead[U Instance, C RxChannel[U], B dma.Segment](rx *Rx[U], ch C, buf *[2]B) *dma.CircBuffer[C, B] {
	var usart U
	regs := rx.regs
	rx.regs = nil
	c := ch.Raw()

	c.SetMemoryAddress(dma.Address(&buf[0]))
	c.SetTransferLength(uint16(2 * len(buf[0])))
	c.SetPeripheralAddress(uint32(regs.RDR.Addr()))
	c.SetRequest(ch.RxRequest(usart))
	regs.CR3.SetBits(stm32l4.USART_CR3_DMAR)

	// Nothing done to buf above may move past the enable below.
	mmio.Fence()

	c.Enable(dma.Config{
		Direction:       dma.PeripheralToMemory,
		Priority:        dma.High,
		MemorySize:      dma.Bits8,
		PeripheralSize:  dma.Bits8,
		MemoryIncrement: true,
		Circular:        true,
	})

	return dma.NewCircBuffer(buf, ch)
}
