package primary

import (
	"context"
	"net"

	"gitlab.com/jobfeed.net/internal/domain"
)

// MessageHandler handles one client message, keyed by its leading tag byte.
// The tag has already been consumed from conn.
type MessageHandler interface {
	HandleMessage(ctx context.Context, conn net.Conn) error
}

// MessagePublisher writes server records to the client
type MessagePublisher interface {
	PublishJob(ctx context.Context, conn net.Conn, job domain.Job) error
	PublishEndOfData(ctx context.Context, conn net.Conn) error
}
