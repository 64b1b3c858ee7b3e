package connectionmanager

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"gitlab.com/jobfeed.net/internal/static/errs"
)

// ReadExact reads exactly n bytes from r. Fewer bytes, including a clean
// EOF, is a short transfer. There is no retry.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("read of %d bytes requested: %w", n, errs.ErrShortTransfer)
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("only read %d of %d bytes requested: %w: %w", got, n, errs.ErrShortTransfer, err)
		}
		return nil, fmt.Errorf("read: %w: %w", errs.ErrIO, err)
	}
	return buf, nil
}

// WriteExact writes all of b to w.
func WriteExact(w io.Writer, b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("write of 0 bytes requested: %w", errs.ErrShortTransfer)
	}
	n, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("write: %w: %w", errs.ErrIO, err)
	}
	if n != len(b) {
		return fmt.Errorf("only wrote %d of %d bytes requested: %w", n, len(b), errs.ErrShortTransfer)
	}
	return nil
}

// IsExpectedClose reports whether err is the peer going away: EOF, a
// closed connection, broken pipe or connection reset.
func IsExpectedClose(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
