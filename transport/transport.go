// Package transport sends and receives DNS messages over the network,
// binding UDP sockets per-interface for multicast and handling the
// IPv4/IPv6 control-message plumbing needed to know which interface a
// multicast packet arrived on (or must be sent via).
package transport

import (
	"net"

	"github.com/dogmatiq/dissolve/wire"
)

// Port is the mDNS port number, per https://tools.ietf.org/html/rfc6762#section-3.
const Port = 5353

// Transport sends and receives DNS messages via UDP, bound to a single
// network interface.
type Transport interface {
	// Listen starts listening for UDP packets on iface.
	Listen(iface *net.Interface) error

	// Read reads the next packet from the transport.
	Read() (*InboundPacket, error)

	// Write sends a packet via the transport.
	Write(*OutboundPacket) error

	// Group returns the transport's multicast group address.
	Group() *net.UDPAddr

	// Close closes the transport, unblocking any in-progress Read.
	Close() error
}

// SendResponse sends m as a response to the query carried by in, addressed
// to "to". It returns false without sending anything if m is empty, since
// an empty reply carries no information a responder should ever transmit.
func SendResponse(in *InboundPacket, to *net.UDPAddr, m *wire.Message) (bool, error) {
	if len(m.Questions) == 0 &&
		len(m.Answers) == 0 &&
		len(m.Authorities) == 0 &&
		len(m.Additional) == 0 {
		return false, nil
	}

	out, err := NewOutboundPacket(
		Endpoint{
			InterfaceIndex: in.Source.InterfaceIndex,
			Address:        to,
		},
		m,
		true,
	)
	if err != nil {
		return false, err
	}

	return true, in.Transport.Write(out)
}

// SendUnicastResponse sends m as a unicast response to the query carried by
// in, addressed directly back to its source.
func SendUnicastResponse(in *InboundPacket, m *wire.Message) (bool, error) {
	return SendResponse(in, in.Source.Address, m)
}

// SendMulticastResponse sends m as a multicast response to the query
// carried by in, addressed to the transport's well-known group.
func SendMulticastResponse(in *InboundPacket, m *wire.Message) (bool, error) {
	return SendResponse(in, in.Transport.Group(), m)
}
