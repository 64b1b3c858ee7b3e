package filesource

import (
	"fmt"
	"os"

	"gitlab.com/jobfeed.net/internal/core/ports/secondary"
	"gitlab.com/jobfeed.net/internal/static/errs"
)

var _ secondary.JobSource = (*FileJobSource)(nil)

// FileJobSource reads job records from a file opened once per server run
type FileJobSource struct {
	*os.File
	name string
}

// Open opens filename read-only.
func Open(filename string) (*FileJobSource, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open(): %w: %w", errs.ErrResourceInit, err)
	}
	return &FileJobSource{File: f, name: filename}, nil
}

// Name returns the path the source was opened from
func (s *FileJobSource) Name() string {
	return s.name
}
