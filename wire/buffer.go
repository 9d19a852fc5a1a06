package wire

import "encoding/binary"

// initialBufferSize is the classical UDP DNS MTU. Encoders start with a
// buffer of this size and grow past it as needed; nothing in this package
// assumes a fixed maximum message size.
const initialBufferSize = 512

// encoder accumulates an encoded DNS message. It is not safe for concurrent
// use.
type encoder struct {
	buf      []byte
	compress bool
	suffixes map[string]int
}

func newEncoder(compress bool) *encoder {
	return &encoder{
		buf:      make([]byte, 0, initialBufferSize),
		compress: compress,
	}
}

func (e *encoder) writeUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) writeBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// reserveUint16 appends a placeholder uint16 and returns its offset so the
// caller can patch it in place once the real value is known (used for
// RDLENGTH, which is not known until the payload has been written).
func (e *encoder) reserveUint16() int {
	off := len(e.buf)
	e.writeUint16(0)
	return off
}

func (e *encoder) patchUint16(off int, v uint16) {
	binary.BigEndian.PutUint16(e.buf[off:off+2], v)
}

// decoder reads a DNS message sequentially from a fixed buffer.
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(buf []byte) *decoder {
	return &decoder{buf: buf}
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.pos
}

func (d *decoder) readUint16() (uint16, error) {
	if d.remaining() < 2 {
		return 0, newProtocolError("read uint16", "buffer truncated at offset %d", d.pos)
	}
	v := binary.BigEndian.Uint16(d.buf[d.pos : d.pos+2])
	d.pos += 2
	return v, nil
}

func (d *decoder) readUint32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, newProtocolError("read uint32", "buffer truncated at offset %d", d.pos)
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return v, nil
}

// readBytes returns a copy of the next n bytes. Copying (rather than
// sub-slicing d.buf) keeps decoded payloads safe to retain past the lifetime
// of the inbound datagram, per §5's buffer-lifetime guidance.
func (d *decoder) readBytes(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, newProtocolError("read bytes", "buffer truncated at offset %d, wanted %d bytes", d.pos, n)
	}
	out := make([]byte, n)
	copy(out, d.buf[d.pos:d.pos+n])
	d.pos += n
	return out, nil
}
