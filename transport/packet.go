package transport

import "github.com/dogmatiq/dissolve/wire"

// InboundPacket is a UDP datagram received from a Transport.
type InboundPacket struct {
	Transport Transport
	Source    Endpoint
	Data      []byte
}

// Message decodes the DNS message carried in the packet.
func (p *InboundPacket) Message() (*wire.Message, error) {
	return wire.Decode(p.Data)
}

// Close returns the packet's data buffer to the pool.
func (p *InboundPacket) Close() {
	putBuffer(p.Data)
	p.Data = nil
}

// OutboundPacket is a UDP datagram to be sent via a Transport.
type OutboundPacket struct {
	Destination Endpoint
	Data        []byte
}

// NewOutboundPacket encodes m and addresses it to dest. compress controls
// whether the wire encoder applies name compression; mDNS responses enable
// it, per RFC 6762 section 18.14.
func NewOutboundPacket(dest Endpoint, m *wire.Message, compress bool) (*OutboundPacket, error) {
	data, err := m.Encode(compress)
	if err != nil {
		return nil, err
	}

	return &OutboundPacket{dest, data}, nil
}
