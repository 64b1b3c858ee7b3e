package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/core/services/dispatch"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/static/errs"
	"gitlab.com/jobfeed.net/internal/tcp/connectionmanager"
	"gitlab.com/jobfeed.net/internal/tcp/defs"
)

// Dialer opens the connection to the server
type Dialer func(ctx context.Context, address string) (net.Conn, error)

// TCPClient requests jobs in bursts and routes each one to a consumer
type TCPClient struct {
	address       string
	dial          Dialer
	stopTimeout   time.Duration
	prompter      primary.Prompter
	fanout        *dispatch.Fanout
	connectionMgr *connectionmanager.ConnectionManager
	logger        primary.Logger

	mu    sync.Mutex
	state domain.ClientState

	terminateOnce sync.Once
	exitCode      int
}

// TCPClientOption configures a TCPClient
type TCPClientOption func(*TCPClient)

// WithDialTimeout bounds each connection attempt
func WithDialTimeout(timeout time.Duration) TCPClientOption {
	return func(c *TCPClient) {
		c.dial = func(ctx context.Context, address string) (net.Conn, error) {
			return (&net.Dialer{Timeout: timeout}).DialContext(ctx, "tcp", address)
		}
	}
}

// WithDialer replaces how the connection is opened
func WithDialer(dial Dialer) TCPClientOption {
	return func(c *TCPClient) {
		c.dial = dial
	}
}

// WithConsumerStopTimeout bounds how long termination waits for the
// consumers before ending them
func WithConsumerStopTimeout(timeout time.Duration) TCPClientOption {
	return func(c *TCPClient) {
		c.stopTimeout = timeout
	}
}

// NewTCPClient creates a client for the server at address (host:port)
func NewTCPClient(
	address string,
	prompter primary.Prompter,
	fanout *dispatch.Fanout,
	logger primary.Logger,
	options ...TCPClientOption,
) *TCPClient {
	cm := connectionmanager.NewConnectionManager(logger)
	client := &TCPClient{
		address:       address,
		stopTimeout:   defs.DefaultConsumerStopTimeout,
		prompter:      prompter,
		fanout:        fanout,
		connectionMgr: cm,
		logger:        cm.Logger,
		state:         domain.ClientStateIdle,
	}
	WithDialTimeout(defs.DefaultDialTimeout)(client)

	// Apply options
	for _, option := range options {
		option(client)
	}

	return client
}

// Connect dials the server. A failed attempt is retried as long as the
// prompter agrees; this is the only failure the client recovers from.
func (c *TCPClient) Connect(ctx context.Context) error {
	for {
		conn, err := c.dial(ctx, c.address)
		if err == nil {
			c.connectionMgr.Attach(ctx, conn)
			c.logger.Info("Successfully connected to the server", "address", c.address)
			return nil
		}
		c.logger.Error("Failed to connect", "operation", "connect()", "address", c.address, "error", err)

		if ctx.Err() != nil {
			return fmt.Errorf("connect: %w", errs.ErrInterrupted)
		}
		if rerr := c.prompter.ConfirmRetry(ctx, err); rerr != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("connect: %w", errs.ErrInterrupted)
			}
			return fmt.Errorf("connect to %s: %w: %w", c.address, errs.ErrResourceInit, err)
		}
	}
}

// State returns the request loop state
func (c *TCPClient) State() domain.ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *TCPClient) setState(state domain.ClientState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// Run is the request loop. It returns when the operator exits, the server
// runs out of jobs, something fails or ctx is cancelled.
func (c *TCPClient) Run(ctx context.Context) domain.Cause {
	for {
		c.setState(domain.ClientStateIdle)

		count, err := c.prompter.NextCount(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return domain.CauseInterrupt
			}
			c.logger.Error("Failed to read job count", "error", err)
			return domain.CauseError
		}
		if count <= 0 {
			c.logger.Info("Exit requested")
			return domain.CauseNormal
		}
		if count > defs.MaxJobs {
			count = defs.MaxJobs
		}

		if cause, done := c.readBurst(ctx, count); done {
			return cause
		}
	}
}

// readBurst requests count jobs and forwards each one. done is true when
// the loop must stop with cause.
func (c *TCPClient) readBurst(ctx context.Context, count int) (cause domain.Cause, done bool) {
	c.setState(domain.ClientStateAwaitingBurst)

	if err := c.connectionMgr.Send(defs.EncodeJobRequest(uint8(count))); err != nil {
		c.logger.Error("Failed to request jobs", "operation", "write()", "count", count, "error", err)
		return connectionmanager.Classify(ctx, err), true
	}

	for i := 0; i < count; i++ {
		header, err := c.connectionMgr.ReadHeader()
		if err != nil {
			c.logger.Error("Failed to read job header", "operation", "read()", "error", err)
			return connectionmanager.Classify(ctx, err), true
		}

		consumer, endOfData, err := defs.RouteRecord(header)
		if err != nil {
			c.logger.Error("Invalid job record", "tag", string(header.Tag), "length", header.Length, "error", err)
			return domain.CauseError, true
		}
		if endOfData {
			c.logger.Info("No more jobs on the server")
			return domain.CauseNormal, true
		}

		c.setState(domain.ClientStateDraining)
		payload, err := c.connectionMgr.ReadPayload(int(header.Length))
		if err != nil {
			c.logger.Error("Failed to read job text", "operation", "read()", "length", header.Length, "error", err)
			return connectionmanager.Classify(ctx, err), true
		}
		if err := c.fanout.Forward(consumer, defs.Frame(payload)); err != nil {
			c.logger.Error("Failed to forward job", "consumer", consumer.String(), "error", err)
			return domain.CauseError, true
		}
		c.setState(domain.ClientStateAwaitingBurst)
	}
	return "", false
}
