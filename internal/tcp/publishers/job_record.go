package publishers

import (
	"context"
	"fmt"
	"net"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/tcp/connectionmanager"
	"gitlab.com/jobfeed.net/internal/tcp/defs"
)

var _ primary.MessagePublisher = (*JobRecordPublisher)(nil)

// JobRecordPublisher frames job records and the end marker onto the wire
type JobRecordPublisher struct {
	Logger primary.Logger
}

func NewJobRecordPublisher(logger primary.Logger) *JobRecordPublisher {
	return &JobRecordPublisher{
		Logger: logger,
	}
}

// PublishJob writes [tag][length][payload] in a single write.
func (p *JobRecordPublisher) PublishJob(ctx context.Context, conn net.Conn, job domain.Job) error {
	// The file's tag byte is forwarded as is; the client decides whether
	// it knows it.
	frame, err := defs.EncodeJobRecord(defs.JobRecord{Tag: job.Tag, Payload: job.Payload})
	if err != nil {
		return fmt.Errorf("failed to frame job record: %w", err)
	}

	if err := connectionmanager.WriteExact(conn, frame); err != nil {
		p.Logger.Error("Failed to send job record", "error", err)
		return err
	}
	p.Logger.Debug("Job record sent", "tag", string(job.Tag), "length", len(job.Payload))
	return nil
}

// PublishEndOfData writes [Q][0].
func (p *JobRecordPublisher) PublishEndOfData(ctx context.Context, conn net.Conn) error {
	if err := connectionmanager.WriteExact(conn, defs.EncodeEndOfData()); err != nil {
		p.Logger.Error("Failed to send end of data", "error", err)
		return err
	}
	p.Logger.Debug("End of data sent")
	return nil
}
