package transport

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"
	ipvx "golang.org/x/net/ipv6"
)

var (
	// IPv6Group is the multicast group used for mDNS over IPv6.
	//
	// See https://tools.ietf.org/html/rfc6762#section-3.
	IPv6Group = net.ParseIP("ff02::fb")

	// IPv6GroupAddress is the address to which mDNS queries are sent over
	// IPv6.
	IPv6GroupAddress = &net.UDPAddr{IP: IPv6Group, Port: Port}

	// IPv6ListenAddress is the address the transport binds to.
	IPv6ListenAddress = &net.UDPAddr{IP: net.IPv6unspecified, Port: Port}
)

// IPv6Transport is an IPv6 UDP transport bound to a single network
// interface.
type IPv6Transport struct {
	Logger logging.Logger

	conn *net.UDPConn
	pc   *ipvx.PacketConn
}

// Listen starts listening for UDP packets and joins the mDNS multicast
// group on iface.
func (t *IPv6Transport) Listen(iface *net.Interface) error {
	addr := IPv6ListenAddress
	conn, err := net.ListenUDP("udp6", addr)
	if err != nil {
		logListenError(t.Logger, addr, err)
		return err
	}

	t.conn = conn
	t.pc = ipvx.NewPacketConn(conn)
	t.pc.SetControlMessage(ipvx.FlagInterface, true)

	if _, err := joinGroup(t.pc, IPv6Group, []net.Interface{*iface}, t.Logger); err != nil {
		t.pc.Close()
		return err
	}

	logListening(t.Logger, addr, []net.Interface{*iface})
	return nil
}

// Read reads the next packet from the transport.
func (t *IPv6Transport) Read() (*InboundPacket, error) {
	buf := getBuffer()

	n, cm, src, err := t.pc.ReadFrom(buf)
	if err != nil {
		putBuffer(buf)
		logReadError(t.Logger, t.Group(), err)
		return nil, err
	}

	ifIndex := 0
	if cm != nil {
		ifIndex = cm.IfIndex
	}

	return &InboundPacket{
		Transport: t,
		Source: Endpoint{
			InterfaceIndex: ifIndex,
			Address:        src.(*net.UDPAddr),
		},
		Data: buf[:n],
	}, nil
}

// Write sends a packet via the transport.
func (t *IPv6Transport) Write(p *OutboundPacket) error {
	dest := &net.UDPAddr{
		IP:   p.Destination.Address.IP,
		Port: p.Destination.Address.Port,
		Zone: p.Destination.Address.Zone,
	}

	if _, err := t.pc.WriteTo(
		p.Data,
		&ipvx.ControlMessage{IfIndex: p.Destination.InterfaceIndex},
		dest,
	); err != nil {
		logWriteError(t.Logger, dest, t.Group(), err)
		return err
	}
	return nil
}

// Group returns the multicast group address for this transport.
func (t *IPv6Transport) Group() *net.UDPAddr {
	return IPv6GroupAddress
}

// Close closes the transport, unblocking any in-progress Read.
func (t *IPv6Transport) Close() error {
	return t.conn.Close()
}
