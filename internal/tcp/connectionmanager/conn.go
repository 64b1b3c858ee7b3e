package connectionmanager

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/static/errs"
	"gitlab.com/jobfeed.net/internal/tcp/defs"
)

// ConnectionManager owns the single live connection of a process. It is
// the session object threaded through the serve loop (server) or request
// loop (client); only that loop reads or writes the connection.
type ConnectionManager struct {
	SessionID string
	Logger    primary.Logger

	mu        sync.Mutex
	conn      net.Conn
	connected bool
	stopWatch func() bool
}

// NewConnectionManager creates a connection manager with a fresh session id
func NewConnectionManager(logger primary.Logger) *ConnectionManager {
	id := uuid.New().String()
	return &ConnectionManager{
		SessionID: id,
		Logger:    logger.With("session", id),
	}
}

// Attach records conn as the live connection. Once ctx is cancelled every
// pending and future read or write on conn fails immediately, which is how
// an interrupt reaches a blocked read.
func (cm *ConnectionManager) Attach(ctx context.Context, conn net.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.conn = conn
	cm.connected = true
	cm.stopWatch = context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	cm.Logger.Info("Connection established", "remote", conn.RemoteAddr().String())
}

// Connected reports whether a connection is attached and not yet closed
func (cm *ConnectionManager) Connected() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.connected
}

// ReadHeader reads a two byte [tag][length] header.
func (cm *ConnectionManager) ReadHeader() (defs.Header, error) {
	conn, err := cm.live()
	if err != nil {
		return defs.Header{}, err
	}
	b, err := ReadExact(conn, defs.HeaderSize)
	if err != nil {
		return defs.Header{}, fmt.Errorf("failed to read header: %w", err)
	}
	return defs.DecodeHeader(b)
}

// ReadTag reads one tag byte.
func (cm *ConnectionManager) ReadTag() (byte, error) {
	conn, err := cm.live()
	if err != nil {
		return 0, err
	}
	b, err := ReadExact(conn, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to read tag: %w", err)
	}
	return b[0], nil
}

// ReadPayload reads exactly n payload bytes.
func (cm *ConnectionManager) ReadPayload(n int) ([]byte, error) {
	conn, err := cm.live()
	if err != nil {
		return nil, err
	}
	b, err := ReadExact(conn, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return b, nil
}

// Send writes b in full.
func (cm *ConnectionManager) Send(b []byte) error {
	conn, err := cm.live()
	if err != nil {
		return err
	}
	return WriteExact(conn, b)
}

// SendShutdownNotice makes one attempt to write b to the peer and ignores
// the outcome. It is bounded by defs.ShutdownNoticeTimeout.
func (cm *ConnectionManager) SendShutdownNotice(b []byte) {
	conn, err := cm.live()
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(defs.ShutdownNoticeTimeout))
	if err := WriteExact(conn, b); err != nil {
		cm.Logger.Debug("Shutdown notice not delivered", "error", err)
	}
}

// Close closes the live connection. It is safe to call more than once.
func (cm *ConnectionManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.conn == nil || !cm.connected {
		return nil
	}
	cm.connected = false
	if cm.stopWatch != nil {
		cm.stopWatch()
	}
	if err := cm.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (cm *ConnectionManager) live() (net.Conn, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.conn == nil || !cm.connected {
		return nil, fmt.Errorf("no live connection: %w", errs.ErrIO)
	}
	return cm.conn, nil
}

// Classify turns an error from the connection into a termination cause.
// A failure observed after ctx was cancelled is an interrupt.
func Classify(ctx context.Context, err error) domain.Cause {
	if err == nil {
		return domain.CauseNormal
	}
	if ctx.Err() != nil || errors.Is(err, errs.ErrInterrupted) {
		return domain.CauseInterrupt
	}
	return domain.CauseError
}
