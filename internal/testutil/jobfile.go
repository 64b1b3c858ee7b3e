package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Record is one [tag][length][payload] entry of a job file
type Record struct {
	Tag  byte
	Text string
}

// EncodeRecords lays records out the way the job file stores them.
func EncodeRecords(records ...Record) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, r.Tag, byte(len(r.Text)))
		out = append(out, r.Text...)
	}
	return out
}

// WriteJobFile writes data to a file in a test temp dir and returns its path.
func WriteJobFile(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.bin")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing job file: %v", err)
	}
	return path
}
