package transport

import (
	"context"
	"net"

	"github.com/dogmatiq/dissolve/wire"
)

// UnicastConn sends and receives DNS messages over a single unicast UDP
// socket, for talking to a conventional recursive or authoritative
// nameserver rather than the mDNS multicast group.
type UnicastConn struct {
	conn *net.UDPConn
}

// DialUnicast opens a UDP socket for sending queries to server, given as
// host:port; no default port is applied.
func DialUnicast(ctx context.Context, server string) (*UnicastConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", server)
	if err != nil {
		return nil, err
	}
	return &UnicastConn{conn: conn.(*net.UDPConn)}, nil
}

// Send encodes and writes m to the server. Unicast queries are sent
// uncompressed by convention, since most authoritative servers do not
// expect compression on the question side and compression gives no benefit
// for messages this small.
func (c *UnicastConn) Send(m *wire.Message) error {
	data, err := m.Encode(false)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(data)
	return err
}

// Receive blocks for a single reply datagram and decodes it.
func (c *UnicastConn) Receive(ctx context.Context) (*wire.Message, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}

	buf := getBuffer()
	defer putBuffer(buf)

	n, err := c.conn.Read(buf)
	if err != nil {
		return nil, err
	}

	return wire.Decode(buf[:n])
}

// Close closes the underlying socket.
func (c *UnicastConn) Close() error {
	return c.conn.Close()
}
