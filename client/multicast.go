package client

import (
	"context"
	"net"
	"time"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/dogmatiq/dissolve/transport"
	"github.com/dogmatiq/dissolve/wire"
)

// Multicast performs a synchronous multicast DNS query, collecting replies
// for at least the given wait duration before returning.
type Multicast interface {
	// Query sends req to the mDNS group and returns the combined answers of
	// every reply received within wait.
	Query(ctx context.Context, req *wire.Message, wait time.Duration) (*wire.Message, error)
}

// DefaultMulticastWait is used when a caller does not specify how long to
// wait for multicast replies.
const DefaultMulticastWait = 500 * time.Millisecond

// DefaultMulticast is the default Multicast client.
var DefaultMulticast Multicast = &MulticastClient{}

// MulticastClient is the standard Multicast implementation. It sends req to
// the IPv4 mDNS group from a socket bound to the mDNS port, so responders
// see an ordinary multicast query rather than a legacy one-shot query (RFC
// 6762 section 6.7), and it collects the replies that arrive on that socket.
//
// Unlike a full mdns.Engine, MulticastClient does not run a persistent
// responder loop: it opens transports for the duration of a single query
// and merges every reply it sees into one synthesized Message.
type MulticastClient struct {
	// Interface selects which network interface to query over. If nil, all
	// multicast-capable interfaces are tried in turn until one succeeds in
	// joining the group.
	Interface *net.Interface

	// Logger receives diagnostic output from the underlying transports.
	Logger logging.Logger
}

// Query sends req to the IPv4 mDNS group and waits for wait for replies,
// merging every answer/authority/additional record received into a single
// response message.
func (c *MulticastClient) Query(ctx context.Context, req *wire.Message, wait time.Duration) (*wire.Message, error) {
	if wait <= 0 {
		wait = DefaultMulticastWait
	}

	t := &transport.IPv4Transport{Logger: c.Logger}

	iface := c.Interface
	if iface == nil {
		ifaces, err := multicastCapableInterfaces()
		if err != nil {
			return nil, err
		}
		for i := range ifaces {
			if err = t.Listen(&ifaces[i]); err == nil {
				iface = &ifaces[i]
				break
			}
		}
		if iface == nil {
			return nil, err
		}
	} else if err := t.Listen(iface); err != nil {
		return nil, err
	}
	defer t.Close()

	out, err := transport.NewOutboundPacket(
		transport.Endpoint{InterfaceIndex: iface.Index, Address: t.Group()},
		req,
		true,
	)
	if err != nil {
		return nil, err
	}
	if err := t.Write(out); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	merged := &wire.Message{
		Header: wire.Header{ID: req.Header.ID, QR: true},
	}

	for {
		in, err := t.Read()
		if err != nil {
			break
		}

		reply, err := in.Message()
		in.Close()
		if err != nil || !reply.Header.QR {
			continue
		}
		if req.Header.ID != 0 && reply.Header.ID != req.Header.ID {
			continue
		}

		merged.Answers = append(merged.Answers, reply.Answers...)
		merged.Authorities = append(merged.Authorities, reply.Authorities...)
		merged.Additional = append(merged.Additional, reply.Additional...)
	}

	return merged, nil
}

func multicastCapableInterfaces() ([]net.Interface, error) {
	candidates, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	const flags = net.FlagUp | net.FlagMulticast

	var matches []net.Interface
	for _, i := range candidates {
		if i.Flags&flags == flags {
			matches = append(matches, i)
		}
	}

	if len(matches) == 0 {
		return nil, &net.OpError{Op: "listen", Err: errNoMulticastInterfaces}
	}

	return matches, nil
}

var errNoMulticastInterfaces = noInterfacesError{}

type noInterfacesError struct{}

func (noInterfacesError) Error() string {
	return "no multicast-capable network interfaces are available"
}
