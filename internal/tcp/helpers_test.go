package tcp

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"gitlab.com/jobfeed.net/internal/adapter/logging"
	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/core/services/dispatch"
	"gitlab.com/jobfeed.net/internal/tcp/connectionmanager"
)

const testTimeout = 5 * time.Second

// syncBuffer is a bytes.Buffer safe for a consumer goroutine and the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// scriptedPrompter answers NextCount from a fixed list, then exits
type scriptedPrompter struct {
	mu      sync.Mutex
	counts  []int
	retries int
	// block makes NextCount wait for ctx once the script is used up
	block bool
}

var _ primary.Prompter = (*scriptedPrompter)(nil)

func (p *scriptedPrompter) NextCount(ctx context.Context) (int, error) {
	p.mu.Lock()
	if len(p.counts) > 0 {
		next := p.counts[0]
		p.counts = p.counts[1:]
		p.mu.Unlock()
		return next, nil
	}
	p.mu.Unlock()
	if p.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return 0, nil
}

func (p *scriptedPrompter) ConfirmRetry(ctx context.Context, cause error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.retries == 0 {
		return io.EOF
	}
	p.retries--
	return nil
}

type clientFixture struct {
	client *TCPClient
	fanout *dispatch.Fanout
	stdout *syncBuffer
	stderr *syncBuffer
}

func newClientFixture(t *testing.T, address string, prompter primary.Prompter, opts ...TCPClientOption) *clientFixture {
	t.Helper()
	logger := logging.NewNopLogger()
	f := &clientFixture{stdout: &syncBuffer{}, stderr: &syncBuffer{}}
	f.fanout = dispatch.NewFanout(context.Background(), f.stdout, f.stderr, 16, logger)
	opts = append([]TCPClientOption{WithConsumerStopTimeout(testTimeout)}, opts...)
	f.client = NewTCPClient(address, prompter, f.fanout, logger, opts...)
	t.Cleanup(func() { f.client.Terminate("") })
	return f
}

// pipeDialer hands out the client end of a net.Pipe once
func pipeDialer(conn net.Conn) Dialer {
	var once sync.Once
	return func(ctx context.Context, address string) (net.Conn, error) {
		var out net.Conn
		once.Do(func() { out = conn })
		if out == nil {
			return nil, net.ErrClosed
		}
		return out, nil
	}
}

// readN reads exactly n bytes from conn within testTimeout
func readN(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(testTimeout))
	b, err := connectionmanager.ReadExact(conn, n)
	if err != nil {
		t.Fatalf("reading %d bytes: %v", n, err)
	}
	return b
}

func writeAll(t *testing.T, conn net.Conn, b []byte) {
	t.Helper()
	_ = conn.SetWriteDeadline(time.Now().Add(testTimeout))
	if err := connectionmanager.WriteExact(conn, b); err != nil {
		t.Fatalf("writing %q: %v", b, err)
	}
}
