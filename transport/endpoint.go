package transport

import "net"

// Endpoint is the origin or destination of a packet: a UDP address plus the
// interface it arrived on or should be sent via.
type Endpoint struct {
	InterfaceIndex int
	Address        *net.UDPAddr
}

// IsLegacy returns true if this endpoint belongs to a "legacy" querier: one
// that does not implement the full mDNS specification and expects a
// conventional unicast response.
//
// See https://tools.ietf.org/html/rfc6762#section-6.7.
func (ep *Endpoint) IsLegacy() bool {
	return ep.Address.Port != Port
}
