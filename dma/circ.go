package dma

import (
	"errors"
	"unsafe"
)

// ErrOverrun reports that the DMA refilled a half before it was consumed.
// Both completion flags stay set, so every later read reports it again until
// CircBuffer.Resync.
var ErrOverrun = errors.New("dma: circular buffer overrun")

// Segment is a fixed-size byte array usable as one half of a circular
// double buffer.
type Segment interface {
	~[8]byte | ~[16]byte | ~[32]byte | ~[64]byte | ~[128]byte |
		~[256]byte | ~[512]byte | ~[1024]byte | ~[2048]byte
}

// Half names one segment of a double buffer.
type Half uint8

const (
	First Half = iota
	Second
)

func (h Half) String() string {
	if h == First {
		return "first"
	}
	return "second"
}

// Chan is any channel handle.
type Chan interface {
	Raw() *Channel
}

// Bytes returns seg viewed as a byte slice.
func Bytes[B Segment](seg *B) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(seg)), len(*seg))
}

// Address returns the bus address of seg.
func Address[B Segment](seg *B) uint32 {
	return uint32(uintptr(unsafe.Pointer(seg)))
}

// CircBuffer is a double buffer continuously refilled by a channel running in
// circular mode. It owns both the buffer and the channel until Stop.
type CircBuffer[C Chan, B Segment] struct {
	buf      *[2]B
	ch       C
	readable Half
	fresh    bool // readable completed since the last Poll
}

// NewCircBuffer takes ownership of a running circular transfer into buf.
// Until the DMA completes the first half, the second half is reported as
// readable.
func NewCircBuffer[C Chan, B Segment](buf *[2]B, ch C) *CircBuffer[C, B] {
	return &CircBuffer[C, B]{buf: buf, ch: ch, readable: Second}
}

// ReadableHalf returns the most recently completed half, the one the DMA is
// not writing. It keeps returning that half until the DMA completes the other
// one, and returns ErrOverrun when both halves completed since the last call.
func (cb *CircBuffer[C, B]) ReadableHalf() (Half, error) {
	c := cb.ch.Raw()
	firstDone := c.HalfTransfer()
	secondDone := c.TransferComplete()
	if firstDone && secondDone {
		return cb.readable, ErrOverrun
	}

	switch cb.readable {
	case First:
		if secondDone {
			c.ClearTransferComplete()
			cb.readable = Second
			cb.fresh = true
		}
	case Second:
		if firstDone {
			c.ClearHalfTransfer()
			cb.readable = First
			cb.fresh = true
		}
	}
	return cb.readable, nil
}

// PeekHalf calls f with the readable half. It returns ErrOverrun if the DMA
// started overwriting that half while f ran, in which case the data seen by
// f is not reliable.
func (cb *CircBuffer[C, B]) PeekHalf(f func(seg []byte, h Half)) error {
	h, err := cb.ReadableHalf()
	if err != nil {
		return err
	}
	f(Bytes(&cb.buf[h]), h)
	if cb.overwritten(h) {
		return ErrOverrun
	}
	return nil
}

// Poll calls f once for every half the DMA completes. It returns false without
// calling f when no new half is ready, and ErrOverrun as PeekHalf does.
func (cb *CircBuffer[C, B]) Poll(f func(seg []byte, h Half)) (bool, error) {
	h, err := cb.ReadableHalf()
	if err != nil {
		return false, err
	}
	if !cb.fresh {
		return false, nil
	}
	cb.fresh = false
	f(Bytes(&cb.buf[h]), h)
	if cb.overwritten(h) {
		return true, ErrOverrun
	}
	return true, nil
}

func (cb *CircBuffer[C, B]) overwritten(h Half) bool {
	c := cb.ch.Raw()
	return (h == First && c.TransferComplete()) || (h == Second && c.HalfTransfer())
}

// Resync recovers from ErrOverrun. It drops both completion flags and
// whatever the halves held, then follows the DMA from its current position:
// the next half it completes is the next one Poll delivers.
func (cb *CircBuffer[C, B]) Resync() {
	c := cb.ch.Raw()
	c.ClearHalfTransfer()
	c.ClearTransferComplete()
	// CNDTR counts down from the length of both halves.
	if int(c.Remaining()) > len(cb.buf[0]) {
		cb.readable = Second // DMA in the first half
	} else {
		cb.readable = First
	}
	cb.fresh = false
}

// Channel returns the channel driving the buffer.
func (cb *CircBuffer[C, B]) Channel() C { return cb.ch }

// Stop halts the channel and returns the buffer and channel.
func (cb *CircBuffer[C, B]) Stop() (*[2]B, C) {
	c := cb.ch.Raw()
	c.Disable()
	c.ClearAll()
	return cb.buf, cb.ch
}
