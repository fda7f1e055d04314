package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// chunkReader hands out its input a few bytes at a time, then io.EOF.
type chunkReader struct {
	data  []byte
	chunk int
}

func (r *chunkReader) ReadContext(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func newTestShell() *Shell {
	s := New()
	s.Register("echo", "print arguments", func(w io.Writer, args []string) error {
		_, err := io.WriteString(w, strings.Join(args[1:], "|")+"\r\n")
		return err
	})
	s.Register("fail", "always fails", func(io.Writer, []string) error {
		return errors.New("boom")
	})
	return s
}

func TestRunSplitsQuotedWords(t *testing.T) {
	var out bytes.Buffer
	err := newTestShell().Run(`echo a "b c" 'd'`, &out)
	require.NoError(t, err)
	require.Equal(t, "a|b c|d\r\n", out.String())
}

func TestRunEmptyAndUnknown(t *testing.T) {
	s := newTestShell()
	var out bytes.Buffer
	require.NoError(t, s.Run("   ", &out))
	require.Empty(t, out.String())

	err := s.Run("nope 1", &out)
	require.ErrorIs(t, err, ErrUnknownCommand)
	require.Contains(t, err.Error(), "nope")
}

func TestHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newTestShell().Run("help", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\r\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "echo"))
	require.True(t, strings.HasPrefix(lines[1], "fail"))
	require.True(t, strings.HasPrefix(lines[2], "help"))
}

func TestServeRepliesWithTerminators(t *testing.T) {
	in := &chunkReader{data: []byte("echo hi\r\n\nfail\rbogus\nech\bho x\n"), chunk: 3}
	var out bytes.Buffer

	require.NoError(t, newTestShell().Serve(context.Background(), in, &out))
	require.Equal(t,
		"hi\r\nok\r\n"+
			"error: boom\r\n"+
			"error: unknown command: bogus\r\n"+
			"x\r\nok\r\n",
		out.String())
}

func TestServeLineTooLong(t *testing.T) {
	long := strings.Repeat("a", MaxLine+5)
	in := &chunkReader{data: []byte(long + "\necho ok\n"), chunk: 16}
	var out bytes.Buffer

	require.NoError(t, newTestShell().Serve(context.Background(), in, &out))
	require.Equal(t, "error: line too long\r\nok\r\nok\r\n", out.String())
}

func TestServeEcho(t *testing.T) {
	s := newTestShell()
	s.Echo = true
	in := &chunkReader{data: []byte("ab\x7fc\r"), chunk: 1}
	var out bytes.Buffer

	require.NoError(t, s.Serve(context.Background(), in, &out))
	require.Equal(t, "ab\b \bc\r\nerror: unknown command: ac\r\n", out.String())
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newTestShell().Serve(ctx, &chunkReader{data: []byte("x")}, io.Discard)
	require.ErrorIs(t, err, context.Canceled)
}
