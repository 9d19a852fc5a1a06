package wire

import (
	"fmt"
	"net"
	"strings"
)

// Resource record type codes used by this package (RFC 1035 §3.2.2, plus the
// mDNS-relevant AAAA/SRV from RFC 3596 / RFC 2782).
const (
	TypeA     uint16 = 1
	TypeNS    uint16 = 2
	TypeCNAME uint16 = 5
	TypeSOA   uint16 = 6
	TypePTR   uint16 = 12
	TypeMX    uint16 = 15
	TypeTXT   uint16 = 16
	TypeAAAA  uint16 = 28
	TypeSRV   uint16 = 33
)

// RecordData is the typed payload of a resource record. The set of
// implementations is closed: A, AAAA, TXT, SRV, PTR, and Other. Callers
// switch on the concrete type (or use a type switch against the exported
// structs below); this package does not support registering further
// variants.
type RecordData interface {
	// Type returns the RRTYPE this payload would be encoded with.
	Type() uint16

	isRecordData()
}

// ARecord is an IPv4 host address record.
type ARecord struct {
	Address [4]byte
}

func (ARecord) Type() uint16 { return TypeA }
func (ARecord) isRecordData() {}

// IP returns the record's address as a net.IP.
func (r ARecord) IP() net.IP {
	return net.IPv4(r.Address[0], r.Address[1], r.Address[2], r.Address[3])
}

// AAAARecord is an IPv6 host address record.
type AAAARecord struct {
	Address [16]byte
}

func (AAAARecord) Type() uint16 { return TypeAAAA }
func (AAAARecord) isRecordData() {}

// IP returns the record's address as a net.IP.
func (r AAAARecord) IP() net.IP {
	return net.IP(r.Address[:])
}

// TXTRecord is a text record.
//
// Raw holds the decoded character-string data concatenated across the
// RDATA (see decodeTXT); Key and Value are
// populated only when Raw contains exactly one "=" separator, per the
// "k=v" convention used by DNS-SD. When Raw does not follow that
// convention, Key and Value are both empty but Raw is preserved.
type TXTRecord struct {
	Raw   string
	Key   string
	Value string
}

func (TXTRecord) Type() uint16 { return TypeTXT }
func (TXTRecord) isRecordData() {}

func newTXTRecord(raw string) TXTRecord {
	r := TXTRecord{Raw: raw}

	if i := strings.IndexByte(raw, '='); i >= 0 && strings.IndexByte(raw[i+1:], '=') == -1 {
		r.Key = raw[:i]
		r.Value = raw[i+1:]
	}

	return r
}

// SRVRecord is a service location record (RFC 2782).
type SRVRecord struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

func (SRVRecord) Type() uint16 { return TypeSRV }
func (SRVRecord) isRecordData() {}

// PTRRecord is a domain name pointer record.
type PTRRecord struct {
	Target string
}

func (PTRRecord) Type() uint16 { return TypePTR }
func (PTRRecord) isRecordData() {}

// OtherRecord carries the raw RDATA of a record whose type this package does
// not decode into a dedicated struct. RRType preserves the numeric type from
// the wire even though the variant itself does not indicate it; callers
// needing the type code must read it from the containing ResourceRecord (or
// this field), not infer it from the Go type.
type OtherRecord struct {
	RRType uint16
	Raw    []byte
}

func (r OtherRecord) Type() uint16 { return r.RRType }
func (OtherRecord) isRecordData() {}

// ResourceRecord is a single entry in a message's answer, authority, or
// additional section.
type ResourceRecord struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   uint32
	Data  RecordData

	// CacheFlush is the mDNS top bit of the class field: responders set it
	// to indicate that the record set replaces, rather than adds to, any
	// cached records with the same name/type/class.
	CacheFlush bool
}

func (r *ResourceRecord) encode(e *encoder) error {
	if r.Data != nil && r.Data.Type() != r.Type {
		return newProtocolError("write record", "record type %d does not match its %T payload (type %d)", r.Type, r.Data, r.Data.Type())
	}

	if err := e.writeName(r.Name); err != nil {
		return err
	}

	e.writeUint16(r.Type)

	class := r.Class & classMask
	if r.CacheFlush {
		class |= classFlagBit
	}
	e.writeUint16(class)

	e.writeUint32(r.TTL)

	rdlenOffset := e.reserveUint16()
	start := len(e.buf)

	if err := encodeRecordData(e, r.Data); err != nil {
		return err
	}

	e.patchUint16(rdlenOffset, uint16(len(e.buf)-start))
	return nil
}

func decodeResourceRecord(d *decoder) (ResourceRecord, error) {
	var r ResourceRecord

	name, err := d.readName()
	if err != nil {
		return r, err
	}
	r.Name = name

	rrtype, err := d.readUint16()
	if err != nil {
		return r, newProtocolError("read record", "truncated before TYPE field")
	}
	r.Type = rrtype

	rrclass, err := d.readUint16()
	if err != nil {
		return r, newProtocolError("read record", "truncated before CLASS field")
	}
	r.Class = rrclass & classMask
	r.CacheFlush = rrclass&classFlagBit != 0

	ttl, err := d.readUint32()
	if err != nil {
		return r, newProtocolError("read record", "truncated before TTL field")
	}
	r.TTL = ttl

	rdlength, err := d.readUint16()
	if err != nil {
		return r, newProtocolError("read record", "truncated before RDLENGTH field")
	}

	if d.remaining() < int(rdlength) {
		return r, newProtocolError("read record", "RDLENGTH %d exceeds remaining buffer (%d bytes)", rdlength, d.remaining())
	}

	// The reader must land on record_start + RDLENGTH regardless of how
	// many bytes the typed payload decoder actually consumes, so that an
	// unrecognized or partially-understood RDATA shape does not desync the
	// rest of the message.
	rdataStart := d.pos
	data, err := decodeRecordData(d, rrtype, int(rdlength))
	if err != nil {
		return r, err
	}
	d.pos = rdataStart + int(rdlength)
	r.Data = data

	return r, nil
}

// encodeRecordData writes the wire form of a record's typed payload. The
// payload's own Type() is authoritative for dispatch, not rr.Type;
// ResourceRecord.encode rejects a record whose Type differs from its
// payload's, so that a mismatched pairing fails loudly rather than silently
// encoding garbage.
func encodeRecordData(e *encoder, data RecordData) error {
	switch v := data.(type) {
	case ARecord:
		e.writeBytes(v.Address[:])
		return nil

	case AAAARecord:
		e.writeBytes(v.Address[:])
		return nil

	case TXTRecord:
		if len(v.Raw) > 255 {
			return newProtocolError("write TXT record", "character-string exceeds 255 bytes")
		}
		e.buf = append(e.buf, byte(len(v.Raw)))
		e.writeBytes([]byte(v.Raw))
		return nil

	case SRVRecord:
		e.writeUint16(v.Priority)
		e.writeUint16(v.Weight)
		e.writeUint16(v.Port)
		return e.writeName(v.Target)

	case PTRRecord:
		return e.writeName(v.Target)

	case OtherRecord:
		e.writeBytes(v.Raw)
		return nil

	default:
		return newProtocolError("write record", "unsupported record payload %T", data)
	}
}

// decodeRecordData decodes a record's typed payload given its RRTYPE and
// RDLENGTH. Unknown types (and types this package does not model, such as
// SOA, which is parsed on demand) decode as OtherRecord, preserving the raw
// bytes.
func decodeRecordData(d *decoder, rrtype uint16, rdlength int) (RecordData, error) {
	switch rrtype {
	case TypeA:
		raw, err := d.readBytes(rdlength)
		if err != nil {
			return nil, newProtocolError("read A record", "%s", err)
		}
		if len(raw) != 4 {
			return nil, newProtocolError("read A record", "RDATA is %d bytes, want 4", len(raw))
		}
		var rec ARecord
		copy(rec.Address[:], raw)
		return rec, nil

	case TypeAAAA:
		raw, err := d.readBytes(rdlength)
		if err != nil {
			return nil, newProtocolError("read AAAA record", "%s", err)
		}
		if len(raw) != 16 {
			return nil, newProtocolError("read AAAA record", "RDATA is %d bytes, want 16", len(raw))
		}
		var rec AAAARecord
		copy(rec.Address[:], raw)
		return rec, nil

	case TypeTXT:
		return decodeTXT(d, rdlength)

	case TypeSRV:
		return decodeSRV(d, rdlength)

	case TypePTR:
		start := d.pos
		target, err := d.readName()
		if err != nil {
			return nil, newProtocolError("read PTR record", "%s", err)
		}
		if d.pos-start > rdlength {
			return nil, newProtocolError("read PTR record", "target name overruns RDLENGTH %d", rdlength)
		}
		return PTRRecord{Target: target}, nil

	default:
		raw, err := d.readBytes(rdlength)
		if err != nil {
			return nil, newProtocolError("read record", "%s", err)
		}
		return OtherRecord{RRType: rrtype, Raw: raw}, nil
	}
}

// decodeTXT reads a TXT record's RDATA.
//
// RFC 1035 §3.3.14 defines TXT RDATA as one or more length-prefixed
// character-strings; this reads each one in turn and concatenates them
// before applying the "k=v" convenience split, rather than treating the
// whole RDLENGTH as a single character-string (see the open question in
// §9 of the originating spec).
func decodeTXT(d *decoder, rdlength int) (RecordData, error) {
	end := d.pos + rdlength

	var sb strings.Builder
	for d.pos < end {
		n := int(d.buf[d.pos])
		d.pos++

		if d.pos+n > end {
			return nil, newProtocolError("read TXT record", "character-string overruns RDLENGTH")
		}

		sb.Write(d.buf[d.pos : d.pos+n])
		d.pos += n
	}

	return newTXTRecord(sb.String()), nil
}

func decodeSRV(d *decoder, rdlength int) (RecordData, error) {
	start := d.pos

	priority, err := d.readUint16()
	if err != nil {
		return nil, newProtocolError("read SRV record", "truncated before PRIORITY field")
	}
	weight, err := d.readUint16()
	if err != nil {
		return nil, newProtocolError("read SRV record", "truncated before WEIGHT field")
	}
	port, err := d.readUint16()
	if err != nil {
		return nil, newProtocolError("read SRV record", "truncated before PORT field")
	}

	target, err := d.readName()
	if err != nil {
		return nil, newProtocolError("read SRV record", "%s", err)
	}

	if d.pos-start > rdlength {
		return nil, newProtocolError("read SRV record", "target name overruns RDLENGTH %d", rdlength)
	}

	return SRVRecord{Priority: priority, Weight: weight, Port: port, Target: target}, nil
}

// SOARecord is a start-of-authority record. It is not decoded automatically
// as part of a message (its RDATA is retained as OtherRecord); call
// ParseSOA on that payload to interpret it.
type SOARecord struct {
	MNAME   string
	RNAME   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

// ParseSOA parses the RDATA of an SOA record previously decoded as an
// OtherRecord (RRType == TypeSOA).
func ParseSOA(o OtherRecord) (SOARecord, error) {
	var rec SOARecord

	if o.RRType != TypeSOA {
		return rec, &InvalidSOARecordError{Reason: fmt.Sprintf("record type is %d, not SOA", o.RRType)}
	}

	d := newDecoder(o.Raw)

	mname, err := d.readName()
	if err != nil {
		return rec, &InvalidSOARecordError{Reason: "malformed MNAME: " + err.Error()}
	}
	rname, err := d.readName()
	if err != nil {
		return rec, &InvalidSOARecordError{Reason: "malformed RNAME: " + err.Error()}
	}

	if d.remaining() < 20 {
		return rec, &InvalidSOARecordError{Reason: "too short for serial/refresh/retry/expire/minimum"}
	}

	serial, _ := d.readUint32()
	refresh, _ := d.readUint32()
	retry, _ := d.readUint32()
	expire, _ := d.readUint32()
	minimum, _ := d.readUint32()

	return SOARecord{
		MNAME:   mname,
		RNAME:   rname,
		Serial:  serial,
		Refresh: refresh,
		Retry:   retry,
		Expire:  expire,
		Minimum: minimum,
	}, nil
}
