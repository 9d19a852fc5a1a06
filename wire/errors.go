package wire

import "fmt"

// ProtocolError indicates that a byte sequence does not conform to the DNS
// wire format: a truncated section, an invalid label length, a compression
// pointer that escapes its buffer, or mismatched header counts.
//
// ProtocolError is not retriable. Callers that decode a stream of messages
// (such as a client connection) should treat it as fatal for the whole
// message and, per spec, for the channel that produced it.
type ProtocolError struct {
	// Op names the decode/encode step that failed (e.g. "read name",
	// "read record").
	Op string

	// Reason is a human-readable description of the failure.
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("dns protocol error: %s: %s", e.Op, e.Reason)
}

func newProtocolError(op, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// InvalidSOARecordError indicates that an SOA payload was too short or
// otherwise malformed to parse.
type InvalidSOARecordError struct {
	Reason string
}

func (e *InvalidSOARecordError) Error() string {
	return fmt.Sprintf("invalid SOA record: %s", e.Reason)
}
