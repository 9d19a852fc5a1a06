// Package mdns implements a multicast DNS responder and query engine for a
// single network interface, following RFC 6762: answering incoming
// questions via a pluggable Answerer, and matching incoming responses back
// to locally issued queries via a query.Registry.
package mdns

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"golang.org/x/sync/errgroup"

	"github.com/dogmatiq/dissolve/query"
	"github.com/dogmatiq/dissolve/transport"
	"github.com/dogmatiq/dissolve/wire"
)

// Port is the mDNS port, re-exported from the transport package for
// convenience.
const Port = transport.Port

// command is a unit of work performed within the engine's main loop.
type command interface {
	Execute(ctx context.Context, e *Engine) error
}

// Engine is an mDNS responder and querier bound to a single network
// interface. It answers incoming questions using an Answerer and delivers
// incoming responses to the query.Registry so that locally issued queries
// can be resolved.
type Engine struct {
	answerer Answerer
	registry *query.Registry

	iface       *net.Interface
	disableIPv4 bool
	disableIPv6 bool
	logger      logging.Logger

	transports []transport.Transport

	done     chan struct{}
	commands chan command
}

// New constructs an Engine. If no interface is selected via WithInterface,
// the engine chooses whichever interface is used to reach the public
// internet.
func New(answerer Answerer, registry *query.Registry, options ...Option) (*Engine, error) {
	e := &Engine{
		answerer: answerer,
		registry: registry,
		done:     make(chan struct{}),
		commands: make(chan command),
	}

	for _, opt := range options {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.iface == nil {
		iface, err := internetInterface()
		if err != nil {
			return nil, err
		}
		e.iface = &iface
	}

	return e, nil
}

// execute runs c on the engine's main loop and blocks until it completes.
func (e *Engine) execute(ctx context.Context, c command) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return errors.New("mdns engine is no longer running")
	case e.commands <- c:
		return nil
	}
}

// schedule runs c on the engine's main loop after a delay of d, unless ctx
// is canceled first.
func (e *Engine) schedule(ctx context.Context, d time.Duration, c command) {
	go func() {
		if err := sleep(ctx, d); err == nil {
			_ = e.execute(ctx, c)
		}
	}()
}

// Run answers and issues mDNS traffic until ctx is canceled or an
// unrecoverable error occurs.
func (e *Engine) Run(ctx context.Context) error {
	if e.disableIPv4 && e.disableIPv6 {
		return errors.New("both IPv4 and IPv6 are disabled")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if !e.disableIPv4 {
		t := &transport.IPv4Transport{Logger: e.logger}
		e.transports = append(e.transports, t)
		g.Go(func() error {
			return e.receive(ctx, t)
		})
	}

	if !e.disableIPv6 {
		t := &transport.IPv6Transport{Logger: e.logger}
		e.transports = append(e.transports, t)
		g.Go(func() error {
			return e.receive(ctx, t)
		})
	}

	g.Go(func() error {
		return e.run(ctx)
	})

	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

// run is the engine's main command loop.
func (e *Engine) run(ctx context.Context) error {
	defer close(e.done)

	// https://tools.ietf.org/html/rfc6762#section-8.1
	//
	// Before sending its first probe, a host waits for a short random
	// delay, to guard against many devices probing in lockstep after a
	// simultaneous power-on.
	if err := sleep(ctx, randT(probeDelayMax)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-e.commands:
			if err := c.Execute(ctx, e); err != nil {
				return err
			}
		}
	}
}

// receive pipes packets read from t into the engine's command loop.
func (e *Engine) receive(ctx context.Context, t transport.Transport) error {
	if err := t.Listen(e.iface); err != nil {
		return err
	}
	defer t.Close()

	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	for {
		in, err := t.Read()
		if err != nil {
			if isClosedError(err) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
			return err
		}

		if e.originatedLocally(in) {
			in.Close()
			continue
		}

		m, err := in.Message()
		if err != nil {
			logging.Log(e.logger, "error parsing mDNS message: %s", err)
			in.Close()
			continue
		}

		var c command
		if m.Header.QR {
			c = &handleResponse{Packet: in, Message: m}
		} else {
			c = &handleQuery{Packet: in, Message: m}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case e.commands <- c:
		}
	}
}

// originatedLocally reports whether in was sent by this host, so that the
// engine does not answer (or resolve pending queries from) its own
// multicast traffic looped back by the kernel.
func (e *Engine) originatedLocally(in *transport.InboundPacket) bool {
	addrs, err := e.iface.Addrs()
	if err != nil {
		return false
	}

	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if ok && ipn.IP.Equal(in.Source.Address.IP) {
			return true
		}
	}

	return false
}

func isClosedError(err error) bool {
	for {
		e, ok := err.(*net.OpError)
		if !ok {
			return false
		}
		if e.Err.Error() == "use of closed network connection" {
			return true
		}
		err = e.Err
	}
}

// handleQuery is an engine command that answers an incoming query.
type handleQuery struct {
	Packet  *transport.InboundPacket
	Message *wire.Message
}

func (c *handleQuery) Execute(ctx context.Context, e *Engine) error {
	defer c.Packet.Close()

	req, err := NewRequest(
		Source{Interface: c.Packet.Source.InterfaceIndex, Address: c.Packet.Source.Address},
		c.Message,
	)
	if err != nil {
		// Malformed or non-conformant queries are silently ignored, per
		// RFC 6762 section 18.3/18.11, not reported as a fatal error.
		return nil
	}

	legacy := req.IsLegacy()
	uRes := NewResponse(c.Message, true)
	mRes := NewResponse(c.Message, false)

	for _, rawQ := range c.Message.Questions {
		unicast := rawQ.UnicastResponse
		q := &Question{
			Question:  rawQ,
			Query:     c.Message,
			Interface: *e.iface,
		}
		a := &Answer{}

		if err := e.answerer.Answer(ctx, q, a); err != nil {
			return err
		}

		if unicast || legacy {
			a.appendToMessage(uRes, legacy)
		} else {
			a.appendToMessage(mRes, legacy)
		}
	}

	if _, err := transport.SendUnicastResponse(c.Packet, uRes); err != nil {
		return err
	}

	if len(mRes.Answers) > 0 || len(mRes.Authorities) > 0 || len(mRes.Additional) > 0 {
		// https://tools.ietf.org/html/rfc6762#section-6
		//
		// Delay each multicast response independently to reduce the
		// chance of several responders replying in lockstep.
		e.schedule(ctx, responseDelay(), &sendMulticast{Packet: c.Packet, Message: mRes})
	}

	return nil
}

// sendMulticast is an engine command that sends a previously built
// multicast response after its RFC 6762 section 6 delay has elapsed.
type sendMulticast struct {
	Packet  *transport.InboundPacket
	Message *wire.Message
}

func (c *sendMulticast) Execute(ctx context.Context, e *Engine) error {
	_, err := transport.SendMulticastResponse(c.Packet, c.Message)
	return err
}

// handleResponse is an engine command that processes an incoming mDNS
// response: it is delivered to the query registry in case it resolves a
// pending local query.
//
// TODO: defend locally-owned unique record sets against conflicting
// responses, per https://tools.ietf.org/html/rfc6762#section-9.
type handleResponse struct {
	Packet  *transport.InboundPacket
	Message *wire.Message
}

func (c *handleResponse) Execute(ctx context.Context, e *Engine) error {
	defer c.Packet.Close()

	if e.registry == nil {
		return nil
	}

	found, err := e.registry.Dispatch(ctx, c.Message, c.Packet.Source.Address)
	if err != nil {
		return err
	}

	if !found {
		// An mDNS response with no locally pending query is unremarkable
		// (it answers someone else's question, or ours already timed out);
		// log and discard rather than treat it as a channel error.
		logging.Log(e.logger, "%s", &query.UnknownQueryError{ID: c.Message.Header.ID})
	}

	return nil
}
