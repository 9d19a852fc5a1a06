package transport

import (
	"fmt"
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

// packetConn is the subset of *ipv4.PacketConn and *ipv6.PacketConn needed
// to join a multicast group.
type packetConn interface {
	JoinGroup(*net.Interface, net.Addr) error
}

// joinGroup joins the mDNS multicast group on each of the given interfaces,
// returning the subset that succeeded. It fails only if none of them do,
// since a host commonly has interfaces (loopback, a down VPN adapter) that
// cannot join a multicast group.
func joinGroup(
	pc packetConn,
	group net.IP,
	ifaces []net.Interface,
	logger logging.Logger,
) ([]net.Interface, error) {
	addr := &net.UDPAddr{IP: group}

	joined := make([]net.Interface, 0, len(ifaces))
	for _, i := range ifaces {
		if err := pc.JoinGroup(&i, addr); err != nil {
			logging.Debug(
				logger,
				"unable to join the %s multicast group on interface %s: %s",
				addr.IP,
				i.Name,
				err,
			)
			continue
		}
		joined = append(joined, i)
	}

	if len(joined) == 0 {
		return nil, fmt.Errorf("unable to join the %s multicast group on any interface", addr.IP)
	}

	return joined, nil
}
