//go:build l4debug

package serial

import "sync/atomic"

// Stats holds counters since the last reset.
type Stats struct {
	// ISR-level
	ISRCount      uint32 // number of HandleInterrupt calls
	ISRBytes      uint32 // total bytes drained
	ISRMaxDrain   uint32 // max bytes drained in a single call
	NotifySent    uint32 // notify channel sends that succeeded
	NotifyDropped uint32 // notify channel sends that were dropped (buffer full)

	// Ring buffer
	RingPuts    uint32 // successful Put()s
	RingMaxUsed uint32 // high-water mark of ring occupancy

	// Blocking API behaviour
	ReadWaits     uint32 // times ReadContext had to wait
	SpuriousWakes uint32 // notify received but no data available
	Timeouts      uint32 // context expiries in ReadContext
}

func (b *Buffered[U]) DebugReset() { b.stats = Stats{} }

func (b *Buffered[U]) DebugStats() Stats {
	// 32-bit atomic loads are fine on Cortex-M4.
	return Stats{
		ISRCount:      atomic.LoadUint32(&b.stats.ISRCount),
		ISRBytes:      atomic.LoadUint32(&b.stats.ISRBytes),
		ISRMaxDrain:   atomic.LoadUint32(&b.stats.ISRMaxDrain),
		NotifySent:    atomic.LoadUint32(&b.stats.NotifySent),
		NotifyDropped: atomic.LoadUint32(&b.stats.NotifyDropped),

		RingPuts:    atomic.LoadUint32(&b.stats.RingPuts),
		RingMaxUsed: atomic.LoadUint32(&b.stats.RingMaxUsed),

		ReadWaits:     atomic.LoadUint32(&b.stats.ReadWaits),
		SpuriousWakes: atomic.LoadUint32(&b.stats.SpuriousWakes),
		Timeouts:      atomic.LoadUint32(&b.stats.Timeouts),
	}
}
