package mdns

import "github.com/dogmatiq/dissolve/wire"

// NewResponse builds a new (empty) response to query, shaped per
// https://tools.ietf.org/html/rfc6762#section-6 and
// https://tools.ietf.org/html/rfc6762#section-18.
//
// unicast indicates the response is being sent directly back to the
// querier (because it requested one, or because it is a legacy querier)
// rather than to the multicast group.
func NewResponse(query *wire.Message, unicast bool) *wire.Message {
	m := &wire.Message{
		Header: wire.Header{
			QR:     true,
			Opcode: wire.OpcodeQuery,
			AA:     true,
			Rcode:  wire.RcodeSuccess,
		},
	}

	// https://tools.ietf.org/html/rfc6762#section-18.1
	//
	// In legacy unicast responses the Query Identifier MUST match the ID
	// from the query; true multicast responses MUST use zero.
	if unicast {
		m.Header.ID = query.Header.ID
	}

	// https://tools.ietf.org/html/rfc6762#section-6
	//
	// Multicast DNS responses MUST NOT contain any questions in the
	// Question Section.
	m.Questions = nil

	return m
}
