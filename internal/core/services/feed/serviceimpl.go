package feed

import (
	"context"
	"fmt"
	"net"
	"sync"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/core/ports/secondary"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/tcp/connectionmanager"
	"gitlab.com/jobfeed.net/internal/tcp/defs"
)

var _ IJobFeedService = &JobFeedService{}

// JobFeedService delivers records from a JobSource, one burst per request.
// Once the source runs out it stays exhausted for the rest of the
// connection and every further burst reports exhaustion straight away.
type JobFeedService struct {
	source    secondary.JobSource
	publisher primary.MessagePublisher
	logger    primary.Logger

	mu    sync.Mutex
	stats domain.FeedStats
}

// NewJobFeedService creates a feed over an already opened source
func NewJobFeedService(source secondary.JobSource, publisher primary.MessagePublisher, logger primary.Logger) *JobFeedService {
	return &JobFeedService{
		source:    source,
		publisher: publisher,
		logger:    logger,
		stats:     domain.FeedStats{State: domain.FeedStateOpen},
	}
}

// ServeBurst sends up to count records followed, if the source ran out, by
// exactly one end-of-data record. Only a short payload or a failed write
// is an error.
func (s *JobFeedService) ServeBurst(ctx context.Context, conn net.Conn, count int) error {
	state := s.state()
	if state == domain.FeedStateClosed {
		return fmt.Errorf("job feed is closed")
	}

	s.update(func(st *domain.FeedStats) { st.Bursts++ })
	s.logger.Debug("Serving burst", "count", count, "state", state)

	if state == domain.FeedStateExhausted {
		return s.endOfData(ctx, conn)
	}

	for i := 0; i < count; i++ {
		job, ok, err := s.next()
		if err != nil {
			return err
		}
		if !ok {
			s.update(func(st *domain.FeedStats) { st.State = domain.FeedStateExhausted })
			s.logger.Info("Job source exhausted", "source", s.source.Name(), "served", s.Stats().RecordsServed)
			return s.endOfData(ctx, conn)
		}

		if err := s.publisher.PublishJob(ctx, conn, job); err != nil {
			return fmt.Errorf("failed to send job record: %w", err)
		}
		s.update(func(st *domain.FeedStats) { st.RecordsServed++ })
	}

	return nil
}

// next reads one record from the source. ok is false at end of file,
// which is an unreadable header or a zero length byte.
func (s *JobFeedService) next() (domain.Job, bool, error) {
	header, err := connectionmanager.ReadExact(s.source, defs.HeaderSize)
	if err != nil {
		s.logger.Debug("Record header unreadable, treating as end of file", "error", err)
		return domain.Job{}, false, nil
	}
	length := int(header[1])
	if length == 0 {
		return domain.Job{}, false, nil
	}

	payload, err := connectionmanager.ReadExact(s.source, length)
	if err != nil {
		return domain.Job{}, false, fmt.Errorf("failed to read job text from %s: %w", s.source.Name(), err)
	}
	return domain.Job{Tag: header[0], Payload: payload}, true, nil
}

func (s *JobFeedService) endOfData(ctx context.Context, conn net.Conn) error {
	if err := s.publisher.PublishEndOfData(ctx, conn); err != nil {
		return fmt.Errorf("failed to send end of data: %w", err)
	}
	s.update(func(st *domain.FeedStats) { st.EndOfDataSent++ })
	return nil
}

// Stats returns a snapshot of the feed counters
func (s *JobFeedService) Stats() domain.FeedStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// SourceName identifies the backing file
func (s *JobFeedService) SourceName() string {
	return s.source.Name()
}

// Close closes the job source. Later calls are no-ops.
func (s *JobFeedService) Close() error {
	s.mu.Lock()
	if s.stats.State == domain.FeedStateClosed {
		s.mu.Unlock()
		return nil
	}
	s.stats.State = domain.FeedStateClosed
	s.mu.Unlock()

	if err := s.source.Close(); err != nil {
		return fmt.Errorf("failed to close job source: %w", err)
	}
	return nil
}

func (s *JobFeedService) state() domain.FeedState {
	return s.Stats().State
}

func (s *JobFeedService) update(fn func(*domain.FeedStats)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}
