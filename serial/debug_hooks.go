//go:build l4debug

package serial

import "sync/atomic"

// Called once per HandleInterrupt with the number of bytes moved.
func (b *Buffered[U]) dbgISR(bytesDrained int) {
	atomic.AddUint32(&b.stats.ISRCount, 1)
	atomic.AddUint32(&b.stats.ISRBytes, uint32(bytesDrained))
	for {
		max := atomic.LoadUint32(&b.stats.ISRMaxDrain)
		if uint32(bytesDrained) <= max {
			break
		}
		if atomic.CompareAndSwapUint32(&b.stats.ISRMaxDrain, max, uint32(bytesDrained)) {
			break
		}
	}
}

// Called per drained byte with the Put() outcome.
func (b *Buffered[U]) dbgOnByte(putOK bool) {
	if !putOK {
		return
	}
	atomic.AddUint32(&b.stats.RingPuts, 1)
	// track high-water mark
	used := uint32(b.ring.Used())
	for {
		max := atomic.LoadUint32(&b.stats.RingMaxUsed)
		if used <= max {
			break
		}
		if atomic.CompareAndSwapUint32(&b.stats.RingMaxUsed, max, used) {
			break
		}
	}
}

func (b *Buffered[U]) dbgNotify(sent bool) {
	if sent {
		atomic.AddUint32(&b.stats.NotifySent, 1)
	} else {
		atomic.AddUint32(&b.stats.NotifyDropped, 1)
	}
}

func (b *Buffered[U]) dbgReadWait()     { atomic.AddUint32(&b.stats.ReadWaits, 1) }
func (b *Buffered[U]) dbgSpuriousWake() { atomic.AddUint32(&b.stats.SpuriousWakes, 1) }
func (b *Buffered[U]) dbgTimeout()      { atomic.AddUint32(&b.stats.Timeouts, 1) }
