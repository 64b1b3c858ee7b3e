package connectionmanager

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
	"testing"

	"gitlab.com/jobfeed.net/internal/static/errs"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device on fire") }

type shortWriter struct{ n int }

func (w shortWriter) Write(b []byte) (int, error) { return w.n, nil }

func TestReadExact(t *testing.T) {
	got, err := ReadExact(strings.NewReader("hello world"), 5)
	if err != nil {
		t.Fatalf("ReadExact: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("ReadExact = %q, want hello", got)
	}
}

func TestReadExactFailures(t *testing.T) {
	tests := []struct {
		name string
		r    io.Reader
		n    int
		want error
	}{
		{"eof", strings.NewReader(""), 2, errs.ErrShortTransfer},
		{"truncated", strings.NewReader("hel"), 5, errs.ErrShortTransfer},
		{"zero length", strings.NewReader("x"), 0, errs.ErrShortTransfer},
		{"io error", failingReader{}, 1, errs.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadExact(tt.r, tt.n)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteExact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExact(&buf, []byte("abc")); err != nil {
		t.Fatalf("WriteExact: %v", err)
	}
	if buf.String() != "abc" {
		t.Fatalf("wrote %q", buf.String())
	}

	if err := WriteExact(shortWriter{n: 1}, []byte("abc")); !errors.Is(err, errs.ErrShortTransfer) {
		t.Fatalf("short write error = %v, want ErrShortTransfer", err)
	}
	if err := WriteExact(&buf, nil); !errors.Is(err, errs.ErrShortTransfer) {
		t.Fatalf("empty write error = %v, want ErrShortTransfer", err)
	}
}

func TestIsExpectedClose(t *testing.T) {
	_, shortErr := ReadExact(strings.NewReader(""), 1)
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{io.EOF, true},
		{shortErr, true},
		{net.ErrClosed, true},
		{syscall.EPIPE, true},
		{syscall.ECONNRESET, true},
		{errors.New("other"), false},
	}
	for _, tt := range tests {
		if got := IsExpectedClose(tt.err); got != tt.want {
			t.Errorf("IsExpectedClose(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
