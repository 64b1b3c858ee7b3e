package handlers

import (
	"context"
	"errors"
	"net"
	"testing"

	"gitlab.com/jobfeed.net/internal/adapter/logging"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/static/errs"
)

// fakeFeed records the bursts it is asked for
type fakeFeed struct {
	counts []int
	err    error
}

func (f *fakeFeed) ServeBurst(ctx context.Context, conn net.Conn, count int) error {
	f.counts = append(f.counts, count)
	return f.err
}

func (f *fakeFeed) Stats() domain.FeedStats { return domain.FeedStats{} }
func (f *fakeFeed) SourceName() string      { return "fake" }
func (f *fakeFeed) Close() error            { return nil }

func TestJobRequestHandler(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	feed := &fakeFeed{}
	h := NewTCPJobRequestHandler(feed, logging.NewNopLogger())
	go func() { _, _ = client.Write([]byte{200}) }()

	if err := h.HandleMessage(context.Background(), server); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(feed.counts) != 1 || feed.counts[0] != 200 {
		t.Fatalf("bursts = %v, want [200]", feed.counts)
	}
}

func TestJobRequestHandlerErrors(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	feed := &fakeFeed{err: errs.ErrIO}
	h := NewTCPJobRequestHandler(feed, logging.NewNopLogger())
	go func() { _, _ = client.Write([]byte{3}) }()
	if err := h.HandleMessage(context.Background(), server); !errors.Is(err, errs.ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}

	// Count byte missing.
	client.Close()
	if err := h.HandleMessage(context.Background(), server); !errors.Is(err, errs.ErrShortTransfer) {
		t.Fatalf("error = %v, want ErrShortTransfer", err)
	}
	if len(feed.counts) != 1 {
		t.Fatalf("bursts = %v", feed.counts)
	}
}

func TestClientTerminateHandler(t *testing.T) {
	logger := logging.NewNopLogger()

	normal := &ClientTerminateHandler{Logger: logger}
	if err := normal.HandleMessage(context.Background(), nil); !errors.Is(err, errs.ErrClientTerminated) {
		t.Fatalf("normal = %v", err)
	}
	failed := &ClientTerminateHandler{Failed: true, Logger: logger}
	if err := failed.HandleMessage(context.Background(), nil); !errors.Is(err, errs.ErrClientFailed) {
		t.Fatalf("failed = %v", err)
	}
}
