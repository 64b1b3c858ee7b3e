package defs

import (
	"fmt"

	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/static/errs"
)

// UnknownTagError reports a tag byte outside the set expected for the
// direction it was read in.
type UnknownTagError struct {
	Tag byte
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %q (0x%02x)", e.Tag, e.Tag)
}

func (e *UnknownTagError) Unwrap() error {
	return errs.ErrUnknownTag
}

// Protocol data structures
type (
	// Header is the two bytes that start every job record and request
	Header struct {
		Tag    byte
		Length uint8
	}

	// JobRecord is a single job delivered from server to client
	JobRecord struct {
		Tag     byte
		Payload []byte
	}
)

// ClientSignal is what the server sees at the start of each client message
type ClientSignal int

const (
	SignalRequestJob ClientSignal = iota
	SignalNormalTerminate
	SignalErrorTerminate
)

// ServerRecordKind is what the client sees at the start of each server record
type ServerRecordKind int

const (
	RecordStdout ServerRecordKind = iota
	RecordStderr
	RecordEndOfData
)

// DecodeClientTag classifies a byte read by the server.
func DecodeClientTag(tag byte) (ClientSignal, error) {
	switch tag {
	case MsgRequestJob:
		return SignalRequestJob, nil
	case MsgNormalTerminate:
		return SignalNormalTerminate, nil
	case MsgErrorTerminate:
		return SignalErrorTerminate, nil
	}
	return 0, &UnknownTagError{Tag: tag}
}

// DecodeServerTag classifies a record tag read by the client.
func DecodeServerTag(tag byte) (ServerRecordKind, error) {
	switch tag {
	case MsgConsumerStdout:
		return RecordStdout, nil
	case MsgConsumerStderr:
		return RecordStderr, nil
	case MsgEmptyMarker:
		return RecordEndOfData, nil
	}
	return 0, &UnknownTagError{Tag: tag}
}

// Consumer maps a record kind to the consumer that prints it. ok is false
// for the end marker.
func (k ServerRecordKind) Consumer() (id domain.ConsumerID, ok bool) {
	switch k {
	case RecordStdout:
		return domain.ConsumerStdout, true
	case RecordStderr:
		return domain.ConsumerStderr, true
	}
	return 0, false
}

// DecodeHeader splits a two byte header.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, fmt.Errorf("header is %d bytes, want %d: %w", len(b), HeaderSize, errs.ErrShortTransfer)
	}
	return Header{Tag: b[0], Length: b[1]}, nil
}

// Validate checks the record can be framed: any tag but the end marker
// and a payload of 1..255 bytes. The tag byte comes from the job file and
// is passed through as is, so it is not checked against the consumer tags.
func (r JobRecord) Validate() error {
	if r.Tag == MsgEmptyMarker {
		return fmt.Errorf("job record cannot carry the end marker tag")
	}
	if len(r.Payload) == 0 || len(r.Payload) > MaxPayload {
		return fmt.Errorf("payload length %d out of range 1..%d", len(r.Payload), MaxPayload)
	}
	return nil
}

// EncodeJobRecord frames a record as [tag][length][payload].
func EncodeJobRecord(r JobRecord) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, HeaderSize+len(r.Payload))
	out[0] = r.Tag
	out[1] = uint8(len(r.Payload))
	copy(out[HeaderSize:], r.Payload)
	return out, nil
}

// RouteRecord decides what the client does with a record header: hand
// the payload to consumer id, or stop because endOfData is set. A
// consumer record must carry at least one byte.
func RouteRecord(h Header) (id domain.ConsumerID, endOfData bool, err error) {
	kind, err := DecodeServerTag(h.Tag)
	if err != nil {
		return 0, false, err
	}
	id, ok := kind.Consumer()
	if !ok {
		return 0, true, nil
	}
	if h.Length == 0 {
		return 0, false, fmt.Errorf("empty %s record: %w", id, errs.ErrShortTransfer)
	}
	return id, false, nil
}

// EncodeEndOfData returns the [Q][0] record that tells the client no jobs
// remain.
func EncodeEndOfData() []byte {
	return []byte{MsgEmptyMarker, 0}
}

// EncodeJobRequest returns [G][count].
func EncodeJobRequest(count uint8) []byte {
	return []byte{MsgRequestJob, count}
}

// EncodeSignal returns a single byte shutdown notice. Only the two
// terminate tags are valid.
func EncodeSignal(tag byte) ([]byte, error) {
	if tag != MsgNormalTerminate && tag != MsgErrorTerminate {
		return nil, &UnknownTagError{Tag: tag}
	}
	return []byte{tag}, nil
}

// ShutdownTag picks the notice byte for a termination cause. An operator
// interrupt is reported to the peer as a normal stop.
func ShutdownTag(cause domain.Cause) byte {
	if cause == domain.CauseError {
		return MsgErrorTerminate
	}
	return MsgNormalTerminate
}

// Frame prepends the length byte to a payload, the format consumers read.
func Frame(payload []byte) []byte {
	out := make([]byte, 1+len(payload))
	out[0] = uint8(len(payload))
	copy(out[1:], payload)
	return out
}
