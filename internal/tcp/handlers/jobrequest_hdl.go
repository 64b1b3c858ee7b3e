package handlers

import (
	"context"
	"fmt"
	"net"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/core/services/feed"
	"gitlab.com/jobfeed.net/internal/tcp/connectionmanager"
)

var _ primary.MessageHandler = (*JobRequestHandler)(nil)

// JobRequestHandler handles [G][count] job requests
type JobRequestHandler struct {
	FeedService feed.IJobFeedService
	Logger      primary.Logger
}

func NewTCPJobRequestHandler(feedService feed.IJobFeedService, logger primary.Logger) *JobRequestHandler {
	return &JobRequestHandler{
		FeedService: feedService,
		Logger:      logger,
	}
}

// HandleMessage implements the MessageHandler interface
func (h *JobRequestHandler) HandleMessage(ctx context.Context, conn net.Conn) error {
	b, err := connectionmanager.ReadExact(conn, 1)
	if err != nil {
		h.Logger.Error("Failed to read job count", "error", err)
		return fmt.Errorf("failed to read job count: %w", err)
	}
	count := int(b[0])

	h.Logger.Info("Job request received", "count", count)
	if err := h.FeedService.ServeBurst(ctx, conn, count); err != nil {
		h.Logger.Error("Failed to serve jobs", "count", count, "error", err)
		return err
	}
	return nil
}
