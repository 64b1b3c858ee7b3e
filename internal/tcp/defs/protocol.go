package defs

import "time"

// Protocol constants
const (
	// Client -> server signals
	MsgRequestJob      byte = 'G'
	MsgNormalTerminate byte = 'T'
	MsgErrorTerminate  byte = 'E'

	// Server -> client record tags. MsgConsumerStderr shares its byte with
	// MsgErrorTerminate; the two are never read in the same direction.
	MsgConsumerStdout byte = 'O'
	MsgConsumerStderr byte = 'E'
	MsgEmptyMarker    byte = 'Q'

	// HeaderSize is tag(1) + length(1).
	HeaderSize = 2

	// MaxJobs is the largest burst a single request may ask for.
	MaxJobs = 255

	// MaxPayload is the largest payload a single record can carry.
	MaxPayload = 255

	// ShutdownNoticeTimeout bounds the best-effort shutdown notice so a
	// peer that stopped reading cannot hold up termination.
	ShutdownNoticeTimeout = 1 * time.Second

	// Client defaults, overridable through config
	DefaultDialTimeout         = 10 * time.Second
	DefaultConsumerStopTimeout = 5 * time.Second
	DefaultConsumerBuffer      = 256
)
