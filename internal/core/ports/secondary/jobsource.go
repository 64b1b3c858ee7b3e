package secondary

import "io"

// JobSource is the backing file of [tag][length][payload] records.
type JobSource interface {
	io.ReadCloser

	// Name identifies the source in logs and status output
	Name() string
}
