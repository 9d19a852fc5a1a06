package mdns

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

// Option applies a configuration choice to an Engine constructed by New.
type Option func(*Engine) error

// WithLogger sets the logger used by the engine.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithInterface sets the network interface the engine binds to. If this
// option is not supplied, the engine chooses whichever interface is used to
// reach the public internet.
func WithInterface(iface net.Interface) Option {
	return func(e *Engine) error {
		e.iface = &iface
		return nil
	}
}

// DisableIPv4 prevents the engine from listening for or sending IPv4
// packets.
func DisableIPv4(e *Engine) error {
	e.disableIPv4 = true
	return nil
}

// DisableIPv6 prevents the engine from listening for or sending IPv6
// packets.
func DisableIPv6(e *Engine) error {
	e.disableIPv6 = true
	return nil
}
