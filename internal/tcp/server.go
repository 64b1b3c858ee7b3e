// package internal
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"gitlab.com/jobfeed.net/internal/adapter/filesource"
	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/core/ports/secondary"
	"gitlab.com/jobfeed.net/internal/core/services/feed"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/static/errs"
	"gitlab.com/jobfeed.net/internal/tcp/connectionmanager"
	"gitlab.com/jobfeed.net/internal/tcp/defs"
	"gitlab.com/jobfeed.net/internal/tcp/handlers"
	"gitlab.com/jobfeed.net/internal/tcp/publishers"
)

// SourceOpener opens the backing job file
type SourceOpener func(filename string) (secondary.JobSource, error)

// TCPServer serves the jobs of one file to exactly one client connection
type TCPServer struct {
	address       string
	filename      string
	openSource    SourceOpener
	logger        primary.Logger
	listener      net.Listener
	connectionMgr *connectionmanager.ConnectionManager
	publisher     primary.MessagePublisher

	mu          sync.Mutex
	feedService feed.IJobFeedService
	handlers    map[byte]primary.MessageHandler

	terminateOnce sync.Once
	exitCode      int
}

// TCPServerOption configures a TCPServer
type TCPServerOption func(*TCPServer)

// WithAddress sets the server address
func WithAddress(address string) TCPServerOption {
	return func(s *TCPServer) {
		s.address = address
	}
}

// WithSourceOpener replaces how the job file is opened
func WithSourceOpener(open SourceOpener) TCPServerOption {
	return func(s *TCPServer) {
		s.openSource = open
	}
}

// NewTCPServer creates a new TCP server for filename
func NewTCPServer(filename string, logger primary.Logger, options ...TCPServerOption) *TCPServer {
	cm := connectionmanager.NewConnectionManager(logger)
	server := &TCPServer{
		address:  ":9000", // Default address
		filename: filename,
		openSource: func(name string) (secondary.JobSource, error) {
			source, err := filesource.Open(name)
			if err != nil {
				return nil, err
			}
			return source, nil
		},
		logger:        cm.Logger,
		connectionMgr: cm,
		publisher:     publishers.NewJobRecordPublisher(cm.Logger),
	}

	// Apply options
	for _, option := range options {
		option(server)
	}

	return server
}

// setupMessageHandlers registers all message handlers
func (s *TCPServer) setupMessageHandlers(feedService feed.IJobFeedService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedService = feedService
	s.handlers = map[byte]primary.MessageHandler{
		defs.MsgRequestJob:      handlers.NewTCPJobRequestHandler(feedService, s.logger),
		defs.MsgNormalTerminate: &handlers.ClientTerminateHandler{Logger: s.logger},
		defs.MsgErrorTerminate:  &handlers.ClientTerminateHandler{Failed: true, Logger: s.logger},
	}
}

// Start starts listening
func (s *TCPServer) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start TCP server: %w: %w", errs.ErrResourceInit, err)
	}

	s.logger.Info("TCP server listening", "address", s.listener.Addr().String())
	return nil
}

// Address returns the listening address, useful with ":0"
func (s *TCPServer) Address() string {
	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

// Serve accepts one connection and answers its requests until the client
// stops, something fails or ctx is cancelled. The returned cause feeds
// Terminate.
func (s *TCPServer) Serve(ctx context.Context) domain.Cause {
	if s.listener == nil {
		s.logger.Error("Serve called before Start")
		return domain.CauseError
	}

	conn, err := s.acceptConnection(ctx)
	if err != nil {
		s.logger.Error("Failed to accept connection", "operation", "accept()", "error", err)
		return connectionmanager.Classify(ctx, err)
	}
	// Only one client per run.
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Warn("Failed to close listener", "error", err)
	}
	s.connectionMgr.Attach(ctx, conn)

	source, err := s.openSource(s.filename)
	if err != nil {
		s.logger.Error("Failed to open job file", "operation", "open()", "file", s.filename, "error", err)
		return domain.CauseError
	}
	s.setupMessageHandlers(feed.NewJobFeedService(source, s.publisher, s.logger))

	return s.handleConnection(ctx, conn)
}

// acceptConnection waits for the single client. Cancelling ctx closes the
// listener, which unblocks Accept.
func (s *TCPServer) acceptConnection(ctx context.Context) (net.Conn, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = s.listener.Close()
	})
	defer stop()

	conn, err := s.listener.Accept()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// handleConnection reads client messages and dispatches on the tag byte
func (s *TCPServer) handleConnection(ctx context.Context, conn net.Conn) domain.Cause {
	for {
		tag, err := s.connectionMgr.ReadTag()
		if err != nil {
			if connectionmanager.IsExpectedClose(err) {
				s.logger.Warn("Client went away without notice", "error", err)
			} else {
				s.logger.Error("Failed to read message", "operation", "read()", "error", err)
			}
			return connectionmanager.Classify(ctx, err)
		}

		if _, err := defs.DecodeClientTag(tag); err != nil {
			s.logger.Error("Unknown message type", "error", err)
			return domain.CauseError
		}

		s.mu.Lock()
		handler := s.handlers[tag]
		s.mu.Unlock()

		err = handler.HandleMessage(ctx, conn)
		switch {
		case err == nil:
			continue
		case errors.Is(err, errs.ErrClientTerminated):
			return domain.CauseNormal
		case errors.Is(err, errs.ErrClientFailed):
			return domain.CauseError
		default:
			s.logger.Error("Error handling message", "type", string(tag), "error", err)
			return connectionmanager.Classify(ctx, err)
		}
	}
}

// Status implements the status endpoint's provider
func (s *TCPServer) Status() domain.ServerStatus {
	status := domain.ServerStatus{
		Session:   s.connectionMgr.SessionID,
		File:      s.filename,
		Address:   s.Address(),
		Connected: s.connectionMgr.Connected(),
	}

	s.mu.Lock()
	feedService := s.feedService
	s.mu.Unlock()

	if feedService != nil {
		status.File = feedService.SourceName()
		status.Feed = feedService.Stats()
	} else {
		status.Feed.State = domain.FeedStateClosed
	}
	return status
}
