package wire

// Message is a complete DNS message: a header plus its four sections. It is
// the unit exchanged between the wire codec and everything above it
// (QueryRegistry, UnicastClient, MulticastEngine).
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []ResourceRecord
	Authorities []ResourceRecord
	Additional  []ResourceRecord
}

// Encode serializes m into DNS wire format. When compress is true, names are
// compressed wherever a suffix has already appeared earlier in the message
// (RFC 1035 §4.1.4); unicast client questions commonly disable it for
// simplicity, while mDNS responses should enable it since name reuse between
// questions/answers is common.
func (m *Message) Encode(compress bool) ([]byte, error) {
	e := newEncoder(compress)

	counts := sectionCounts{
		question:   uint16(len(m.Questions)),
		answer:     uint16(len(m.Answers)),
		authority:  uint16(len(m.Authorities)),
		additional: uint16(len(m.Additional)),
	}

	m.Header.encode(e, counts)

	for i := range m.Questions {
		if err := m.Questions[i].encode(e); err != nil {
			return nil, err
		}
	}
	for i := range m.Answers {
		if err := m.Answers[i].encode(e); err != nil {
			return nil, err
		}
	}
	for i := range m.Authorities {
		if err := m.Authorities[i].encode(e); err != nil {
			return nil, err
		}
	}
	for i := range m.Additional {
		if err := m.Additional[i].encode(e); err != nil {
			return nil, err
		}
	}

	return e.buf, nil
}

// Decode parses buf as a complete DNS message.
func Decode(buf []byte) (*Message, error) {
	d := newDecoder(buf)

	header, counts, err := decodeHeader(d)
	if err != nil {
		return nil, err
	}

	m := &Message{
		Header:      header,
		Questions:   make([]Question, 0, counts.question),
		Answers:     make([]ResourceRecord, 0, counts.answer),
		Authorities: make([]ResourceRecord, 0, counts.authority),
		Additional:  make([]ResourceRecord, 0, counts.additional),
	}

	for i := uint16(0); i < counts.question; i++ {
		q, err := decodeQuestion(d)
		if err != nil {
			return nil, err
		}
		m.Questions = append(m.Questions, q)
	}

	for _, n := range []struct {
		count uint16
		dest  *[]ResourceRecord
	}{
		{counts.answer, &m.Answers},
		{counts.authority, &m.Authorities},
		{counts.additional, &m.Additional},
	} {
		for i := uint16(0); i < n.count; i++ {
			rr, err := decodeResourceRecord(d)
			if err != nil {
				return nil, err
			}
			*n.dest = append(*n.dest, rr)
		}
	}

	return m, nil
}
