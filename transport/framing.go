package transport

import (
	"encoding/binary"
	"io"

	"github.com/dogmatiq/dissolve/wire"
)

// WriteFramed writes m to w using the two-byte big-endian length prefix
// defined for DNS-over-TCP (RFC 1035 section 4.2.2). Nothing in this
// package currently drives a TCP connection with it; it exists so that
// callers embedding this package in a stream-oriented transport do not need
// to reimplement the framing rule.
func WriteFramed(w io.Writer, m *wire.Message) error {
	data, err := m.Encode(true)
	if err != nil {
		return err
	}
	if len(data) > 0xFFFF {
		return io.ErrShortWrite
	}

	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(data)))

	if _, err := w.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadFramed reads a single length-prefixed message from r.
func ReadFramed(r io.Reader) (*wire.Message, error) {
	var lenPrefix [2]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint16(lenPrefix[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return wire.Decode(buf)
}
