package cortexm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

// newTestDWT returns a DWT over fresh simulated blocks with the activation
// guard cleared, as after a reset.
func newTestDWT(t *testing.T) (*DWT, *stm32l4.Peripherals) {
	t.Helper()
	enabled.Store(false)
	p := stm32l4.Simulated()
	return NewDWT(p.DWT, p.DCB), p
}

func TestEnableCycleCounter(t *testing.T) {
	d, p := newTestDWT(t)
	require.False(t, d.Enabled())

	cc := d.EnableCycleCounter()
	require.True(t, d.Enabled())
	require.NotZero(t, p.DCB.Registers().DEMCR.Peek()&stm32l4.DCB_DEMCR_TRCENA)
	require.NotZero(t, p.DWT.Registers().CTRL.Peek()&stm32l4.DWT_CTRL_CYCCNTENA)

	p.DWT.Registers().CYCCNT.Poke(0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), cc.Count())
	require.Zero(t, p.DWT.Registers().CYCCNT.Stores(), "reading must never write CYCCNT")
}

func TestEnableCycleCounterTwicePanics(t *testing.T) {
	d, p := newTestDWT(t)
	_ = d.EnableCycleCounter()

	ctrl := &p.DWT.Registers().CTRL
	ctrl.ResetCounts()
	require.PanicsWithValue(t, "cortexm: cycle counter already enabled", func() {
		_ = d.EnableCycleCounter()
	})
	require.Zero(t, ctrl.Stores())
}

func TestSecondHandleCannotReenable(t *testing.T) {
	a, p := newTestDWT(t)
	_ = a.EnableCycleCounter()

	// A second handle built from the same tokens names the same counter.
	b := NewDWT(p.DWT, p.DCB)
	require.True(t, b.Enabled())

	ctrl := &p.DWT.Registers().CTRL
	ctrl.ResetCounts()
	require.PanicsWithValue(t, "cortexm: cycle counter already enabled", func() {
		_ = b.EnableCycleCounter()
	})
	require.Zero(t, ctrl.Stores(), "CTRL written by the second handle")
}
