package mdns

import (
	"errors"

	"github.com/dogmatiq/dissolve/wire"
)

// NewQuery builds a new (empty) mDNS query, shaped per
// https://tools.ietf.org/html/rfc6762#section-18.
//
// legacy indicates the query is being sent by a "one-shot" querier that
// expects a conventional unicast reply; such queries carry a random ID
// (which may itself be zero), while true multicast queries SHOULD use zero.
func NewQuery(legacy bool, qs ...wire.Question) *wire.Message {
	m := &wire.Message{
		Questions: qs,
	}

	if legacy {
		m.Header.ID = newQueryID()
	}

	// Opcode, AA, TC, RD, RA, Z and Rcode are all left at their zero value,
	// which is what section 18 requires for a query.

	return m
}

// ValidateQuery returns an error if m is not a well-formed mDNS query.
func ValidateQuery(m *wire.Message) error {
	if m.Header.QR {
		return errors.New("message is a response, not a query")
	}
	if m.Header.Opcode != wire.OpcodeQuery {
		return errors.New("OPCODE must be zero (query) in mDNS queries")
	}
	if m.Header.Rcode != 0 {
		return errors.New("RCODE must be zero in mDNS queries")
	}
	return nil
}
