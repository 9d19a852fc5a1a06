package mdns

import (
	"errors"
	"net"
)

// multicastInterfaces returns the network interfaces that are up and
// support multicast.
func multicastInterfaces() ([]net.Interface, error) {
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
		return nil, errors.New("no multicast-capable network interfaces are available")
	}

	return matches, nil
}

// internetInterface returns the network interface used to reach the public
// internet, on the assumption that whatever interface can route to a
// well-known public DNS server is the one a caller wants when they have not
// specified an interface explicitly.
func internetInterface() (net.Interface, error) {
	candidates, err := net.Interfaces()
	if err != nil {
		return net.Interface{}, err
	}

	conn, err := net.Dial("udp4", "8.8.8.8:53")
	if err != nil {
		return net.Interface{}, err
	}
	defer conn.Close()

	ip := conn.LocalAddr().(*net.UDPAddr).IP

	for _, i := range candidates {
		addrs, err := i.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok && ipn.IP.Equal(ip) {
				return i, nil
			}
		}
	}

	return net.Interface{}, errors.New("could not determine the internet-facing network interface")
}
