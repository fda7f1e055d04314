//go:build !l4debug

package serial

type Stats struct{}

func (b *Buffered[U]) DebugReset()       {}
func (b *Buffered[U]) DebugStats() Stats { return Stats{} }

func (b *Buffered[U]) dbgISR(int)       {}
func (b *Buffered[U]) dbgOnByte(bool)   {}
func (b *Buffered[U]) dbgNotify(bool)   {}
func (b *Buffered[U]) dbgReadWait()     {}
func (b *Buffered[U]) dbgSpuriousWake() {}
func (b *Buffered[U]) dbgTimeout()      {}
