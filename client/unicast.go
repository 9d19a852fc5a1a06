// Package client sends DNS messages to a single destination and waits for
// the matching reply: UnicastClient talks to a conventional nameserver over
// UDP, MulticastClient talks to the mDNS group and collects every reply
// that arrives within a wait window.
package client

import (
	"context"
	"net"
	"time"

	"github.com/dogmatiq/dissolve/query"
	"github.com/dogmatiq/dissolve/transport"
	"github.com/dogmatiq/dissolve/wire"
)

// Unicast performs a synchronous unicast DNS query.
type Unicast interface {
	// Query sends req to ns (host:port) and returns its reply.
	Query(ctx context.Context, req *wire.Message, ns string) (*wire.Message, error)
}

// UnicastClient is the standard Unicast implementation: it dials a UDP
// socket per query, assigns the query an ID via a Registry so replies can
// be correlated (the same Registry may be shared by several
// UnicastClients), and waits for either a matching reply or ctx's
// deadline.
type UnicastClient struct {
	// Registry tracks in-flight queries. If nil, a private Registry is
	// created and run for the lifetime of each call to Query.
	Registry *query.Registry
}

// DefaultUnicast is the default Unicast client.
var DefaultUnicast Unicast = &UnicastClient{}

// Query sends req to ns and returns its reply, or an error if ctx expires
// or is canceled first.
func (c *UnicastClient) Query(ctx context.Context, req *wire.Message, ns string) (*wire.Message, error) {
	reg := c.Registry
	if reg == nil {
		reg = query.NewRegistry()

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go reg.Run(runCtx)
	}

	conn, err := transport.DialUnicast(ctx, ns)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	type result struct {
		reply *wire.Message
		err   error
	}
	resultCh := make(chan result, 1)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}

	if _, err := reg.Send(ctx, req, deadline, func(reply *wire.Message, from net.Addr, err error) query.CallbackSignal {
		resultCh <- result{reply, err}
		return query.Done
	}); err != nil {
		return nil, err
	}

	if err := conn.Send(req); err != nil {
		return nil, err
	}

	go func() {
		reply, err := conn.Receive(ctx)
		if err != nil {
			return
		}
		_, _ = reg.Dispatch(ctx, reply, nil)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-resultCh:
		return r.reply, r.err
	}
}
