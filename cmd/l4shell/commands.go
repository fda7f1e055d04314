//go:build stm32l4

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jangala-dev/tinygo-l4hal/monotimer"
	"github.com/jangala-dev/tinygo-l4hal/nb"
	"github.com/jangala-dev/tinygo-l4hal/serial"
	"github.com/jangala-dev/tinygo-l4hal/shell"
	"github.com/jangala-dev/tinygo-l4hal/stm32l4"
)

var boot = time.Now()

func register(sh *shell.Shell, mono *monotimer.MonoTimer, rx *serial.Buffered[stm32l4.USART2]) {
	sh.Register("echo", "echo ARGS...: print the arguments", func(w io.Writer, args []string) error {
		for i, a := range args[1:] {
			if i > 0 {
				io.WriteString(w, " ")
			}
			io.WriteString(w, a)
		}
		io.WriteString(w, "\r\n")
		return nil
	})

	sh.Register("delay", "delay MS: busy-wait on the cycle counter", func(_ io.Writer, args []string) error {
		ms, err := msArg(args)
		if err != nil {
			return err
		}
		mono.DelayMs(ms)
		return nil
	})

	sh.Register("wait", "wait MS: poll the non-blocking countdown", func(w io.Writer, args []string) error {
		ms, err := msArg(args)
		if err != nil {
			return err
		}
		polls := 0
		for mono.Wait(time.Duration(ms)*time.Millisecond) == nb.ErrWouldBlock {
			polls++
		}
		fmt.Fprintf(w, "%d polls\r\n", polls)
		return nil
	})

	sh.Register("time", "time CMD...: run a command and report its cycles", func(w io.Writer, args []string) error {
		if len(args) < 2 {
			return shell.ErrUsage
		}
		i := mono.Start()
		err := sh.Run(joinArgs(args[1:]), w)
		ticks, d := i.ElapsedTicks(), i.Elapsed()
		mono = i.Stop()
		fmt.Fprintf(w, "%d cycles, %s\r\n", ticks, d)
		return err
	})

	sh.Register("ticks", "raw cycle counter", func(w io.Writer, _ []string) error {
		fmt.Fprintf(w, "%d (tick %s)\r\n", mono.Current(), mono.Tick())
		return nil
	})

	sh.Register("uptime", "time since boot", func(w io.Writer, _ []string) error {
		fmt.Fprintf(w, "%s\r\n", time.Since(boot))
		return nil
	})

	sh.Register("stats", "receive error counters", func(w io.Writer, _ []string) error {
		e := rx.Errors()
		fmt.Fprintf(w, "parity=%d framing=%d noise=%d overrun=%d dropped=%d buffered=%d\r\n",
			e.Parity, e.Framing, e.Noise, e.Overrun, e.Dropped, rx.Buffered())
		fmt.Fprintf(w, "%+v\r\n", rx.DebugStats())
		return nil
	})
}

func msArg(args []string) (uint32, error) {
	if len(args) != 2 {
		return 0, shell.ErrUsage
	}
	ms, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(ms), nil
}

// joinArgs quotes each argument so the shell splits them back unchanged.
func joinArgs(args []string) string {
	var line []byte
	for i, a := range args {
		if i > 0 {
			line = append(line, ' ')
		}
		line = strconv.AppendQuote(line, a)
	}
	return string(line)
}
