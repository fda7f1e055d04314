// Package shell is a small line-oriented command interpreter for a serial
// console. Lines are split into words with shell quoting rules; each reply
// ends with a line holding Ok or starting with ErrPrefix, so a program on
// the other end of the wire knows when a command has finished.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/shlex"
)

// Reply terminators.
const (
	Ok        = "ok"
	ErrPrefix = "error: "
)

// MaxLine is the longest accepted input line.
const MaxLine = 128

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrLineTooLong    = errors.New("line too long")
	ErrUsage          = errors.New("usage")
)

// Func runs a command. args[0] is the command name.
type Func func(w io.Writer, args []string) error

type command struct {
	help string
	fn   Func
}

// Shell maps command names to handlers.
type Shell struct {
	cmds map[string]command

	// Echo writes received characters back, for interactive terminals.
	Echo bool
}

// New returns a shell with the built-in "help" command.
func New() *Shell {
	s := &Shell{cmds: make(map[string]command)}
	s.Register("help", "list commands", s.help)
	return s
}

// Register adds or replaces a command.
func (s *Shell) Register(name, help string, fn Func) {
	s.cmds[name] = command{help: help, fn: fn}
}

func (s *Shell) help(w io.Writer, _ []string) error {
	names := make([]string, 0, len(s.cmds))
	for n := range s.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "%-8s %s\r\n", n, s.cmds[n].help)
	}
	return nil
}

// Run executes one line. An empty line does nothing.
func (s *Shell) Run(line string, w io.Writer) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	c, ok := s.cmds[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return c.fn(w, args)
}

// reply runs line and writes its terminator.
func (s *Shell) reply(line string, w io.Writer) {
	if err := s.Run(line, w); err != nil {
		io.WriteString(w, ErrPrefix+err.Error()+"\r\n")
		return
	}
	io.WriteString(w, Ok+"\r\n")
}

// ContextReader is a reader whose reads can be abandoned.
type ContextReader interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

// Serve reads lines from r and answers each on w until ctx is done or r
// reports io.EOF. A line ends at CR or LF; an empty line gets no reply.
// Backspace and DEL erase one character.
func (s *Shell) Serve(ctx context.Context, r ContextReader, w io.Writer) error {
	var (
		line    [MaxLine]byte
		n       int
		tooLong bool
		in      [16]byte
	)
	for {
		m, err := r.ReadContext(ctx, in[:])
		for _, c := range in[:m] {
			switch {
			case c == '\r' || c == '\n':
				if s.Echo {
					io.WriteString(w, "\r\n")
				}
				switch {
				case tooLong:
					io.WriteString(w, ErrPrefix+ErrLineTooLong.Error()+"\r\n")
				case n > 0:
					s.reply(string(line[:n]), w)
				}
				n, tooLong = 0, false
			case c == '\b' || c == 0x7F:
				if n > 0 {
					n--
					if s.Echo {
						io.WriteString(w, "\b \b")
					}
				}
			case n == len(line):
				tooLong = true
			default:
				line[n] = c
				n++
				if s.Echo {
					w.Write([]byte{c})
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
