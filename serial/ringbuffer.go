package serial

import "sync/atomic"

// Choose a power-of-two size for efficient modulo.
const bufferSize = 128

// RingBuffer is a single-producer, single-consumer byte ring. On receive the
// producer is the interrupt and the consumer the foreground; on transmit the
// roles swap.
type RingBuffer struct {
	buf  [bufferSize]byte
	head atomic.Uint32 // next write, owned by Put
	tail atomic.Uint32 // next read, owned by Get
}

// Size returns the total capacity of the buffer in bytes.
func (rb *RingBuffer) Size() int { return bufferSize }

// Used returns how many bytes are stored.
func (rb *RingBuffer) Used() int {
	return int(rb.head.Load() - rb.tail.Load())
}

// Put stores a byte. If the buffer is already full, it returns false.
func (rb *RingBuffer) Put(val byte) bool {
	h := rb.head.Load()
	if h-rb.tail.Load() == bufferSize {
		return false
	}
	rb.buf[h%bufferSize] = val // 1) write data
	rb.head.Store(h + 1)       // 2) publish
	return true
}

// Get returns a byte from the buffer. If the buffer is empty, it returns (0, false).
func (rb *RingBuffer) Get() (byte, bool) {
	t := rb.tail.Load()
	if rb.head.Load() == t {
		return 0, false
	}
	v := rb.buf[t%bufferSize] // 1) read current element
	rb.tail.Store(t + 1)      // 2) publish consumption
	return v, true
}

// Clear drops everything stored. Only the consumer may call it.
func (rb *RingBuffer) Clear() {
	rb.tail.Store(rb.head.Load())
}
