package mdns

import (
	"errors"
	"net"

	"github.com/dogmatiq/dissolve/wire"
)

// Source is the origin of an mDNS request: the interface it arrived on and
// the address it came from.
type Source struct {
	Interface int
	Address   *net.UDPAddr
}

// Request is a query received over multicast.
type Request struct {
	Source  Source
	Message *wire.Message
}

// NewRequest validates and wraps a received query message.
func NewRequest(src Source, m *wire.Message) (*Request, error) {
	if m.Header.QR {
		return nil, errors.New("message is a response, not a query")
	}

	// https://tools.ietf.org/html/rfc6762#section-18.3
	//
	// In both multicast query and multicast response messages, the OPCODE
	// MUST be zero on transmission. Multicast DNS messages received with an
	// OPCODE other than zero MUST be silently ignored.
	if m.Header.Opcode != wire.OpcodeQuery {
		return nil, errors.New("OPCODE must be zero (query) in mDNS requests")
	}

	// https://tools.ietf.org/html/rfc6762#section-18.11
	//
	// Response Code MUST be zero on transmission; messages received with a
	// non-zero Response Code MUST be silently ignored.
	if m.Header.Rcode != 0 {
		return nil, errors.New("RCODE must be zero in mDNS requests")
	}

	return &Request{Source: src, Message: m}, nil
}

// IsLegacy returns true if this request was sent by a "legacy" (one-shot)
// querier that does not implement the full mDNS specification and expects
// a conventional unicast reply.
//
// See https://tools.ietf.org/html/rfc6762#section-6.7.
func (r *Request) IsLegacy() bool {
	return r.Source.Address.Port != Port
}
