package rcc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

func TestTicksIn(t *testing.T) {
	f := MHz(80)
	require.Equal(t, uint64(80), f.TicksIn(time.Microsecond))
	require.Equal(t, uint64(80_000_000), f.TicksIn(time.Second))
	require.Equal(t, uint64(120_000_000), f.TicksIn(1500*time.Millisecond))
	require.Equal(t, uint64(0), f.TicksIn(-time.Second))
	// Large durations must not overflow the intermediate product.
	require.Equal(t, uint64(3600)*80_000_000, f.TicksIn(time.Hour))
}

func TestTickAndDurationOf(t *testing.T) {
	require.Equal(t, 250*time.Nanosecond, MHz(4).Tick())
	require.Equal(t, time.Duration(0), Hertz(0).Tick())
	require.Equal(t, time.Second, MHz(4).DurationOf(4_000_000))
	require.Equal(t, 1500*time.Millisecond, KHz(2).DurationOf(3000))
}

func TestBusEnableAndReset(t *testing.T) {
	p := stm32l4.Simulated()
	parts := Constrain(p.RCC)
	regs := p.RCC.Registers()

	parts.APB2.Enable(stm32l4.RCC_APB2ENR_USART1EN)
	require.NotZero(t, regs.APB2ENR.Peek()&stm32l4.RCC_APB2ENR_USART1EN)

	parts.APB2.Reset(stm32l4.RCC_APB2RSTR_USART1RST)
	// The pulse leaves the line released: one store sets, one clears.
	require.Zero(t, regs.APB2RSTR.Peek())
	require.Equal(t, uint32(2), regs.APB2RSTR.Stores())

	parts.APB2.Disable(stm32l4.RCC_APB2ENR_USART1EN)
	require.Zero(t, regs.APB2ENR.Peek())
}

func TestResetClocks(t *testing.T) {
	c := ResetClocks()
	require.Equal(t, MHz(4), c.SysClk())
	require.Equal(t, MHz(4), c.PClk1())
	require.Equal(t, MHz(4), c.PClk2())
}
