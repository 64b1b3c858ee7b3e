package feed

import (
	"context"
	"net"

	"gitlab.com/jobfeed.net/internal/domain"
)

// IJobFeedService defines the interface of the server's job feed
type IJobFeedService interface {
	// ServeBurst answers one job request for count jobs on conn
	ServeBurst(ctx context.Context, conn net.Conn, count int) error

	// Stats returns a snapshot of the feed counters
	Stats() domain.FeedStats

	// SourceName identifies the backing file
	SourceName() string

	// Close closes the job source
	Close() error
}
