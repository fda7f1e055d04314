// Package nb is the non-blocking contract shared by the drivers in this
// module. An operation that cannot complete right now reports WouldBlock and
// leaves the hardware untouched; the caller decides whether to retry, spin or
// give up. WouldBlock is a retry signal, not a failure.
package nb

import "errors"

// ErrWouldBlock reports that an operation cannot complete immediately.
var ErrWouldBlock = errors.New("operation would block")

// Void is the outcome of an operation whose only failure mode is WouldBlock.
// The zero value is success and Blocked is the only other value; no caller
// can construct a different failure.
type Void struct{ blocked bool }

// Blocked is the WouldBlock outcome of a Void operation.
var Blocked = Void{blocked: true}

// WouldBlock reports whether the operation must be retried.
func (v Void) WouldBlock() bool { return v.blocked }

// Err converts v into an error: nil on success, ErrWouldBlock otherwise.
func (v Void) Err() error {
	if v.blocked {
		return ErrWouldBlock
	}
	return nil
}

// Block spins on f until it succeeds.
func Block(f func() Void) {
	for f().blocked {
	}
}

// BlockErr spins on f while it reports ErrWouldBlock and returns the first
// other outcome.
func BlockErr(f func() error) error {
	for {
		if err := f(); err != ErrWouldBlock {
			return err
		}
	}
}

// BlockValue spins on f while it reports ErrWouldBlock and returns the first
// other outcome.
func BlockValue[T any](f func() (T, error)) (T, error) {
	for {
		v, err := f()
		if err != ErrWouldBlock {
			return v, err
		}
	}
}

// Retry calls f at most attempts times while it reports ErrWouldBlock. It
// returns ErrWouldBlock when the attempts run out.
func Retry(attempts int, f func() error) error {
	for i := 0; i < attempts; i++ {
		if err := f(); err != ErrWouldBlock {
			return err
		}
	}
	return ErrWouldBlock
}
