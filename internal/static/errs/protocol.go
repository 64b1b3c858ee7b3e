package errs

import "errors"

// Transport and framing failures. None of these are retried.
var (
	ErrIO            = errors.New("i/o error")
	ErrShortTransfer = errors.New("short transfer")
	ErrUnknownTag    = errors.New("unknown tag")
)

// ErrResourceInit is returned for socket, file or channel setup failures
// that happen before the termination protocol has anything to tear down.
var ErrResourceInit = errors.New("resource initialization failed")

var (
	ErrClientTerminated = errors.New("client terminated normally")
	ErrClientFailed     = errors.New("client terminated due to an error")
	ErrInterrupted      = errors.New("interrupted")
)
