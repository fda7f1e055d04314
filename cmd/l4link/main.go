//go:build !stm32l4

// l4link talks to a board running l4shell over a serial port.
//
//	l4link -port /dev/ttyACM0                 interactive shell
//	l4link -port /dev/ttyACM0 -e ticks "delay 500" ticks
//
// Unknown words at the prompt are sent to the board as a command line.
// "monitor" switches to a raw terminal passthrough until Ctrl-].
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/mattn/go-tty"
	"github.com/tarm/serial"
)

var (
	portName = "/dev/ttyACM0"
	baud     = 115200
	timeout  = time.Second
	evalOnly bool
)

func init() {
	flag.StringVar(&portName, "port", portName, "Serial device of the board.")
	flag.IntVar(&baud, "baud", baud, "Baud rate.")
	flag.DurationVar(&timeout, "timeout", timeout, "Reply timeout per command.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluate the command lines given as arguments, no interactive shell.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	port, err := serial.OpenPort(&serial.Config{
		Name:        portName,
		Baud:        baud,
		ReadTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		glog.Exitf("failed to open serial port %s: %v", portName, err)
	}
	defer port.Close()
	glog.Infof("opened %s at %d bps", portName, baud)

	link := NewLink(port)
	link.Timeout = timeout
	if err := link.Sync(); err != nil {
		glog.Warningf("sync: %v", err)
	}

	if evalOnly {
		os.Exit(eval(link, flag.Args(), os.Stdout))
	}

	sh := ishell.New()
	sh.SetPrompt(portName + " > ")
	sh.NotFound(func(c *ishell.Context) {
		lines, err := link.Do(Quote(c.Args))
		for _, s := range lines {
			c.Println(s)
		}
		if err != nil {
			c.Err(err)
		}
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "monitor",
		Help: "raw terminal passthrough, Ctrl-] to leave",
		Func: func(c *ishell.Context) {
			if err := monitor(port); err != nil {
				c.Err(err)
			}
		},
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "sync",
		Help: "resynchronise with the board",
		Func: func(c *ishell.Context) {
			if err := link.Sync(); err != nil {
				c.Err(err)
			}
		},
	})
	sh.Run()
}

// eval runs each argument as one command line and returns the exit code.
func eval(link *Link, lines []string, w io.Writer) int {
	if len(lines) == 0 {
		fmt.Fprintln(os.Stderr, "command expected")
		return 2
	}
	for _, line := range lines {
		out, err := link.Do(line)
		for _, s := range out {
			fmt.Fprintln(w, s)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
	}
	return 0
}

const escape = 0x1D // Ctrl-]

// monitor copies the board's output to the terminal and keystrokes to the
// board until Ctrl-].
func monitor(port *serial.Port) error {
	t, err := tty.Open()
	if err != nil {
		return fmt.Errorf("open tty: %w", err)
	}
	defer t.Close()
	restore := t.MustRaw()
	defer restore()
	// Runs before restore and Close: the pump must be gone first.
	defer pump(port, t.Output())()

	for {
		r, err := t.ReadRune()
		if err != nil {
			return err
		}
		if r == escape {
			return nil
		}
		if _, err := port.Write([]byte(string(r))); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
}

// pump copies r to w on its own goroutine until a read fails or the
// returned stop is called. stop waits for the goroutine to exit, so nothing
// touches w once it returns. Reads of r must time out for stop to be prompt.
func pump(r io.Reader, w io.Writer) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var buf [256]byte
		for {
			select {
			case <-done:
				return
			default:
			}
			n, err := r.Read(buf[:])
			if n > 0 {
				w.Write(buf[:n])
			}
			if err != nil && err != io.EOF {
				glog.Errorf("monitor read: %v", err)
				return
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}
