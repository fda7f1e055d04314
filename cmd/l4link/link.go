//go:build !stm32l4

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/google/shlex"

	"github.com/jangala-dev/tinygo-l4hal/shell"
)

// ErrTimeout is returned when the board does not finish a reply in time.
var ErrTimeout = errors.New("l4link: timeout waiting for reply")

// RemoteError is an "error: ..." reply from the board.
type RemoteError struct {
	Cmd string
	Msg string
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %s", e.Cmd, e.Msg) }

// Link runs l4shell commands over a byte stream. Reads may return 0 bytes
// when the port's read timeout expires; Link keeps reading until Timeout.
type Link struct {
	rw      io.ReadWriter
	Timeout time.Duration

	buf []byte // received, not yet returned
	now func() time.Time
}

// NewLink returns a link over rw with a one second reply timeout.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{rw: rw, Timeout: time.Second, now: time.Now}
}

// Quote joins words into a line the board splits back into the same words.
func Quote(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		if w != "" && !strings.ContainsAny(w, " \t\r\n\"'\\#") {
			b.WriteString(w)
			continue
		}
		b.WriteString(strconv.Quote(w))
	}
	return b.String()
}

// Do sends one command line and returns the output lines before the
// terminator. The line is checked locally first, so unbalanced quotes never
// reach the board.
func (l *Link) Do(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, nil
	}
	cmd := Quote(words)
	glog.V(2).Infof("TX %q", cmd)
	if _, err := io.WriteString(l.rw, cmd+"\r\n"); err != nil {
		return nil, fmt.Errorf("write %q: %w", cmd, err)
	}

	deadline := l.now().Add(l.Timeout)
	var out []string
	for {
		s, err := l.readLine(deadline)
		if err != nil {
			return out, err
		}
		glog.V(2).Infof("RX %q", s)
		switch {
		case s == shell.Ok:
			return out, nil
		case strings.HasPrefix(s, shell.ErrPrefix):
			return out, &RemoteError{Cmd: words[0], Msg: strings.TrimPrefix(s, shell.ErrPrefix)}
		default:
			out = append(out, s)
		}
	}
}

// readLine returns the next non-empty line without its CR/LF.
func (l *Link) readLine(deadline time.Time) (string, error) {
	var chunk [64]byte
	for {
		if i := indexEOL(l.buf); i >= 0 {
			s := string(l.buf[:i])
			l.buf = l.buf[i+1:]
			if s == "" {
				continue
			}
			return s, nil
		}
		if l.now().After(deadline) {
			return "", ErrTimeout
		}
		n, err := l.rw.Read(chunk[:])
		l.buf = append(l.buf, chunk[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read: %w", err)
		}
	}
}

func indexEOL(b []byte) int {
	for i, c := range b {
		if c == '\r' || c == '\n' {
			return i
		}
	}
	return -1
}

// Sync discards input until the board answers an empty echo, which skips a
// banner or a half-received reply left from an earlier session.
func (l *Link) Sync() error {
	l.buf = l.buf[:0]
	_, err := l.Do("echo")
	return err
}
