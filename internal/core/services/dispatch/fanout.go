package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/domain"
)

// Fanout runs the stdout and stderr consumers. The request loop is the
// only writer of either channel.
type Fanout struct {
	consumers [2]*Consumer
	logger    primary.Logger

	mu     sync.Mutex
	closed bool
}

// NewFanout starts both consumers. They run until finished, their
// channels are closed, ctx is cancelled or Kill is called.
func NewFanout(ctx context.Context, stdout, stderr io.Writer, buffer int, logger primary.Logger) *Fanout {
	f := &Fanout{
		consumers: [2]*Consumer{
			newConsumer(ctx, domain.ConsumerStdout, stdout, buffer, logger),
			newConsumer(ctx, domain.ConsumerStderr, stderr, buffer, logger),
		},
		logger: logger,
	}
	for _, c := range f.consumers {
		go c.run()
	}
	return f
}

// Consumer returns the consumer for id
func (f *Fanout) Consumer(id domain.ConsumerID) *Consumer {
	return f.consumers[id]
}

// Forward queues a [length][payload] frame for consumer id. It fails
// instead of blocking if that consumer has already stopped.
func (f *Fanout) Forward(id domain.ConsumerID, frame []byte) error {
	if int(id) < 0 || int(id) >= len(f.consumers) {
		return fmt.Errorf("no consumer %d", id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("consumer channels closed")
	}

	c := f.consumers[id]
	select {
	case c.ch <- frame:
		return nil
	case <-c.done:
		return fmt.Errorf("%s consumer stopped: %s", id, c.reason)
	}
}

// Finish sends the finished sentinel to every consumer still running.
func (f *Fanout) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for _, c := range f.consumers {
		select {
		case c.ch <- FinishedFrame:
		case <-c.done:
		}
	}
}

// Close closes both channels. Consumers drain what is queued and stop.
func (f *Fanout) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for _, c := range f.consumers {
		close(c.ch)
	}
}

// Wait blocks until both consumers have stopped or timeout passes. A
// zero timeout waits forever.
func (f *Fanout) Wait(timeout time.Duration) bool {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	for _, c := range f.consumers {
		select {
		case <-c.done:
		case <-expired:
			f.logger.Warn("Consumers did not stop in time", "timeout", timeout)
			return false
		}
	}
	return true
}

// Kill cancels both consumers and waits up to timeout for them to exit.
// A consumer blocked inside a write to its destination only sees the
// cancel once that write returns, so false means one is still running.
func (f *Fanout) Kill(timeout time.Duration) bool {
	for _, c := range f.consumers {
		c.cancel()
	}
	return f.Wait(timeout)
}
