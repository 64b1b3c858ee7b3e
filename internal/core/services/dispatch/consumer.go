package dispatch

import (
	"context"
	"fmt"
	"io"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/static/errs"
)

// FinishedFrame is the sentinel that tells a consumer to stop: a frame
// whose length byte is zero.
var FinishedFrame = []byte{0}

// StopReason records why a consumer stopped
type StopReason string

const (
	StopFinished  StopReason = "FINISHED"
	StopClosed    StopReason = "CLOSED"
	StopKilled    StopReason = "KILLED"
	StopMalformed StopReason = "MALFORMED"
)

// Consumer prints the payloads of its private channel, one write per
// payload, to a destination no other consumer uses.
type Consumer struct {
	ID     domain.ConsumerID
	out    io.Writer
	ch     chan []byte
	logger primary.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	reason StopReason
}

func newConsumer(ctx context.Context, id domain.ConsumerID, out io.Writer, buffer int, logger primary.Logger) *Consumer {
	ctx, cancel := context.WithCancel(ctx)
	return &Consumer{
		ID:     id,
		out:    out,
		ch:     make(chan []byte, buffer),
		logger: logger.With("consumer", id.String()),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Done is closed once the consumer has stopped
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

// Reason is valid after Done is closed
func (c *Consumer) Reason() StopReason {
	<-c.done
	return c.reason
}

func (c *Consumer) run() {
	defer close(c.done)
	defer c.cancel()

	for {
		select {
		case <-c.ctx.Done():
			c.reason = StopKilled
			return
		case frame, ok := <-c.ch:
			if !ok {
				c.reason = StopClosed
				return
			}
			text, finished, err := DecodeFrame(frame)
			if err != nil {
				c.logger.Error("Malformed frame", "error", err)
				c.reason = StopMalformed
				return
			}
			if finished {
				c.reason = StopFinished
				return
			}
			c.print(text)
		}
	}
}

func (c *Consumer) print(text []byte) {
	if len(text) == 0 {
		return
	}
	line := make([]byte, 0, len(text)+1)
	line = append(line, text...)
	line = append(line, '\n')
	if _, err := c.out.Write(line); err != nil {
		c.logger.Warn("Failed to print job", "error", err)
	}
}

// DecodeFrame reads a [length][payload] frame in two stages: the length
// byte, then exactly that many bytes. A zero length is the finished
// sentinel.
func DecodeFrame(frame []byte) (text []byte, finished bool, err error) {
	if len(frame) == 0 {
		return nil, false, fmt.Errorf("empty frame: %w", errs.ErrShortTransfer)
	}
	length := int(frame[0])
	if length == 0 {
		return nil, true, nil
	}
	body := frame[1:]
	if len(body) != length {
		return nil, false, fmt.Errorf("frame declares %d bytes, carries %d: %w", length, len(body), errs.ErrShortTransfer)
	}
	return body, false, nil
}
