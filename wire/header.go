package wire

// headerSize is the fixed, 12-byte on-wire size of a DNS message header.
const headerSize = 12

// Opcode values (RFC 1035 §4.1.1).
const (
	OpcodeQuery  uint8 = 0
	OpcodeIQuery uint8 = 1
	OpcodeStatus uint8 = 2
)

// Response code values (RFC 1035 §4.1.1).
const (
	RcodeSuccess        uint8 = 0
	RcodeFormatError    uint8 = 1
	RcodeServerFailure  uint8 = 2
	RcodeNameError      uint8 = 3
	RcodeNotImplemented uint8 = 4
	RcodeRefused        uint8 = 5
)

// Header is the fixed 12-byte preamble of a DNS message (RFC 1035 §4.1.1).
// It does not carry the on-wire section counts; those are derived from (or,
// on decode, used to size) the message's section slices.
type Header struct {
	// ID is the transaction ID used to correlate a response with its query.
	ID uint16

	// QR is true for a response, false for a query.
	QR bool

	// Opcode specifies the kind of query (4 bits).
	Opcode uint8

	// AA (Authoritative Answer) is set by a server that owns the queried
	// zone.
	AA bool

	// TC (Truncated) indicates the message was larger than permitted and
	// has been truncated.
	TC bool

	// RD (Recursion Desired) is set by a client that wants the server to
	// resolve the query recursively.
	RD bool

	// RA (Recursion Available) is set by a server that supports recursive
	// queries.
	RA bool

	// Z is the reserved 3-bit field. It must be zero in conforming
	// messages but is preserved verbatim on decode.
	Z uint8

	// Rcode is the 4-bit response code.
	Rcode uint8
}

type sectionCounts struct {
	question, answer, authority, additional uint16
}

func (h *Header) encode(e *encoder, c sectionCounts) {
	e.writeUint16(h.ID)

	var options uint16
	if h.QR {
		options |= 1 << 15
	}
	options |= uint16(h.Opcode&0xF) << 11
	if h.AA {
		options |= 1 << 10
	}
	if h.TC {
		options |= 1 << 9
	}
	if h.RD {
		options |= 1 << 8
	}
	if h.RA {
		options |= 1 << 7
	}
	options |= uint16(h.Z&0x7) << 4
	options |= uint16(h.Rcode & 0xF)
	e.writeUint16(options)

	e.writeUint16(c.question)
	e.writeUint16(c.answer)
	e.writeUint16(c.authority)
	e.writeUint16(c.additional)
}

func decodeHeader(d *decoder) (Header, sectionCounts, error) {
	var h Header
	var c sectionCounts

	if d.remaining() < headerSize {
		return h, c, newProtocolError("read header", "buffer is only %d bytes, need %d", d.remaining(), headerSize)
	}

	id, _ := d.readUint16()
	h.ID = id

	options, _ := d.readUint16()
	h.QR = options&(1<<15) != 0
	h.Opcode = uint8(options>>11) & 0xF
	h.AA = options&(1<<10) != 0
	h.TC = options&(1<<9) != 0
	h.RD = options&(1<<8) != 0
	h.RA = options&(1<<7) != 0
	h.Z = uint8(options>>4) & 0x7
	h.Rcode = uint8(options & 0xF)

	c.question, _ = d.readUint16()
	c.answer, _ = d.readUint16()
	c.authority, _ = d.readUint16()
	c.additional, _ = d.readUint16()

	return h, c, nil
}
