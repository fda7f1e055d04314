// Package monotimer provides a monotonic clock and busy-wait delays over a
// free-running 32-bit cycle counter.
//
// All arithmetic on counter values is modulo 2^32. A single wraparound
// between two observations is handled; two or more are not detected, so
// callers must observe the counter at least once per wrap period
// (2^32 / SYSCLK, about 53 s at 80 MHz).
package monotimer

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/jangala-dev/tinygo-l4hal/cortexm"
	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/rcc"
)

// MaxCount is the largest value of the counter before it wraps to zero.
const MaxCount = math.MaxUint32

// Counter is a free-running count-up counter.
type Counter interface {
	Count() uint32
}

// Elapsed returns to - from, correct across one wraparound of T.
func Elapsed[T constraints.Unsigned](from, to T) T { return to - from }

// MonoTimer is a monotonic clock over a Counter running at a known frequency.
type MonoTimer struct {
	frequency rcc.Hertz
	lastCount uint32
	counter   Counter

	// Wait countdown state.
	waiting  bool
	waitLast uint32
	waitDone uint64
	waitFor  uint64
}

// New enables the DWT cycle counter and returns a timer over it at SYSCLK.
// It panics if the cycle counter is already enabled.
func New(dwt *cortexm.DWT, clocks rcc.Clocks) *MonoTimer {
	return FromCounter(dwt.EnableCycleCounter(), clocks.SysClk())
}

// FromCounter returns a timer over c counting at f.
func FromCounter(c Counter, f rcc.Hertz) *MonoTimer {
	return &MonoTimer{frequency: f, counter: c, lastCount: c.Count()}
}

func (t *MonoTimer) updateCount() { t.lastCount = t.counter.Count() }

// Current returns the raw counter value.
func (t *MonoTimer) Current() uint32 { return t.counter.Count() }

// HasWrapped reports whether the counter is below the last recorded count.
// Only one wrap is detectable.
func (t *MonoTimer) HasWrapped() bool { return t.Current() < t.lastCount }

// Tick returns the duration of one count.
func (t *MonoTimer) Tick() time.Duration { return t.frequency.Tick() }

// LimitValue is the value the counter starts from. It counts up, so 0.
func (t *MonoTimer) LimitValue() uint32 { return 0 }

// Frequency returns the counting frequency.
func (t *MonoTimer) Frequency() rcc.Hertz { return t.frequency }

// Delay busy-waits for d.
func (t *MonoTimer) Delay(d time.Duration) {
	ticks := t.frequency.TicksIn(d)
	t.updateCount()
	for ticks != 0 {
		remaining := MaxCount - t.lastCount
		if ticks > uint64(remaining) {
			// Run to the wrap, then continue from the new count.
			for !t.HasWrapped() {
			}
			t.updateCount()
			ticks -= uint64(remaining)
			continue
		}
		for uint64(Elapsed(t.lastCount, t.Current())) < ticks {
		}
		return
	}
}

// DelayMs busy-waits for ms milliseconds.
func (t *MonoTimer) DelayMs(ms uint32) { t.Delay(time.Duration(ms) * time.Millisecond) }

// DelayUs busy-waits for us microseconds.
func (t *MonoTimer) DelayUs(us uint32) { t.Delay(time.Duration(us) * time.Microsecond) }

// Wait is the non-blocking form of Delay. The first call arms a countdown of
// d and every call returns nb.ErrWouldBlock until d has passed since then;
// the call that sees it expire returns nil and disarms, so the next call
// starts a new countdown. d is only read when arming.
//
// The counter is sampled on every call, so waits longer than one wrap
// period are fine as long as Wait is polled more often than that.
func (t *MonoTimer) Wait(d time.Duration) error {
	now := t.Current()
	if !t.waiting {
		t.waiting = true
		t.waitLast = now
		t.waitDone = 0
		t.waitFor = t.frequency.TicksIn(d)
	}
	t.waitDone += uint64(Elapsed(t.waitLast, now))
	t.waitLast = now
	if t.waitDone < t.waitFor {
		return nb.ErrWouldBlock
	}
	t.waiting = false
	return nil
}

// Cancel disarms a pending Wait.
func (t *MonoTimer) Cancel() { t.waiting = false }

// Start captures the current count. The timer belongs to the returned
// Instant until Stop.
func (t *MonoTimer) Start() Instant {
	t.updateCount()
	return Instant{timer: t, start: t.lastCount}
}

// Instant is a point in time captured by Start.
type Instant struct {
	timer *MonoTimer
	start uint32
}

// ElapsedTicks returns the counts since the instant.
func (i Instant) ElapsedTicks() uint32 { return Elapsed(i.start, i.timer.Current()) }

// Elapsed returns the time since the instant.
func (i Instant) Elapsed() time.Duration {
	return i.timer.frequency.DurationOf(uint64(i.ElapsedTicks()))
}

// Stop releases the timer, recording the current count.
func (i Instant) Stop() *MonoTimer {
	i.timer.updateCount()
	return i.timer
}
