package wire

// ClassInternet is the Internet class (IN), by far the only class seen in
// practice.
const ClassInternet uint16 = 1

// classMask strips the mDNS flag bit (unicast-response on questions,
// cache-flush on records) from a 16-bit class field.
const classMask = 0x7FFF

// classFlagBit is the top bit shared by the mDNS unicast-response-requested
// (on questions) and cache-flush (on records) flags.
const classFlagBit = 0x8000

// Question is a single entry in a message's question section.
type Question struct {
	Name  string
	Type  uint16
	Class uint16

	// UnicastResponse is the mDNS "QU" bit: the top bit of the class field,
	// requesting that the answer be sent unicast rather than multicast.
	// It is always false outside of mDNS.
	UnicastResponse bool
}

func (q *Question) encode(e *encoder) error {
	if err := e.writeName(q.Name); err != nil {
		return err
	}

	e.writeUint16(q.Type)

	class := q.Class & classMask
	if q.UnicastResponse {
		class |= classFlagBit
	}
	e.writeUint16(class)

	return nil
}

func decodeQuestion(d *decoder) (Question, error) {
	var q Question

	name, err := d.readName()
	if err != nil {
		return q, err
	}
	q.Name = name

	t, err := d.readUint16()
	if err != nil {
		return q, newProtocolError("read question", "truncated before TYPE field")
	}
	q.Type = t

	rrclass, err := d.readUint16()
	if err != nil {
		return q, newProtocolError("read question", "truncated before CLASS field")
	}
	q.Class = rrclass & classMask
	q.UnicastResponse = rrclass&classFlagBit != 0

	return q, nil
}
