// Package resolver builds and dispatches single-question DNS queries on
// behalf of a caller, routing each one to either a conventional unicast
// nameserver or the mDNS group depending on the name queried, and
// projecting the reply's answer section into a typed result.
package resolver

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/dogmatiq/dissolve/client"
	"github.com/dogmatiq/dissolve/wire"
)

// NotFoundError indicates that a query completed without error but no
// answer of the requested type was present in the reply.
type NotFoundError struct {
	Name string
	Type uint16
}

func (e *NotFoundError) Error() string {
	return "no matching records found for " + e.Name
}

// Resolver builds and dispatches DNS queries, choosing between a unicast
// Client and a Multicast client based on the name queried.
//
// Its exported methods are thin, typed wrappers around a single shared
// query path: each builds a one-question Message, sends it via Unicast or
// Multicast depending on IsMulticast, and filters the reply's answer
// section for the matching record type.
type Resolver struct {
	// Unicast is the client used for conventional nameserver queries. If
	// nil, client.DefaultUnicast is used.
	Unicast client.Unicast

	// Multicast is the client used for ".local" queries. If nil,
	// client.DefaultMulticast is used.
	Multicast client.Multicast

	// MulticastWait is the minimum time to wait for mDNS replies when the
	// query's context does not specify one via WithMulticastWait. If zero,
	// client.DefaultMulticastWait is used.
	MulticastWait time.Duration

	// IsMulticast decides whether a fully-qualified name should be queried
	// via multicast DNS. If nil, any name ending in ".local." is treated as
	// multicast.
	IsMulticast func(fqdn string) bool

	// Config supplies the unicast nameserver list and search domains. If
	// nil, DefaultConfig is used.
	Config *Config
}

// QueryA resolves host's IPv4 addresses, returning one socket address per
// answer with port stamped to the caller-supplied port.
func (r *Resolver) QueryA(ctx context.Context, host string, port int) ([]*net.UDPAddr, error) {
	res, err := r.query(ctx, host, wire.TypeA)
	if err != nil {
		return nil, err
	}

	var addrs []*net.UDPAddr
	for _, rec := range res.Answers {
		if a, ok := rec.Data.(wire.ARecord); ok {
			addrs = append(addrs, &net.UDPAddr{IP: a.IP(), Port: port})
		}
	}

	if len(addrs) == 0 {
		return nil, &NotFoundError{Name: host, Type: wire.TypeA}
	}

	return addrs, nil
}

// QueryAAAA resolves host's IPv6 addresses, returning one socket address per
// answer with port stamped to the caller-supplied port.
func (r *Resolver) QueryAAAA(ctx context.Context, host string, port int) ([]*net.UDPAddr, error) {
	res, err := r.query(ctx, host, wire.TypeAAAA)
	if err != nil {
		return nil, err
	}

	var addrs []*net.UDPAddr
	for _, rec := range res.Answers {
		if a, ok := rec.Data.(wire.AAAARecord); ok {
			addrs = append(addrs, &net.UDPAddr{IP: a.IP(), Port: port})
		}
	}

	if len(addrs) == 0 {
		return nil, &NotFoundError{Name: host, Type: wire.TypeAAAA}
	}

	return addrs, nil
}

// QuerySRV resolves the SRV records published under name, sorted by
// priority and shuffled by weight per RFC 2782.
func (r *Resolver) QuerySRV(ctx context.Context, name string) ([]wire.SRVRecord, error) {
	res, err := r.query(ctx, name, wire.TypeSRV)
	if err != nil {
		return nil, err
	}

	var records []wire.SRVRecord
	for _, rec := range res.Answers {
		if s, ok := rec.Data.(wire.SRVRecord); ok {
			records = append(records, s)
		}
	}

	if len(records) == 0 {
		return nil, &NotFoundError{Name: name, Type: wire.TypeSRV}
	}

	SortSRV(records)

	return records, nil
}

// QueryTXT resolves the TXT records published under name.
func (r *Resolver) QueryTXT(ctx context.Context, name string) ([]wire.TXTRecord, error) {
	res, err := r.query(ctx, name, wire.TypeTXT)
	if err != nil {
		return nil, err
	}

	var records []wire.TXTRecord
	for _, rec := range res.Answers {
		if t, ok := rec.Data.(wire.TXTRecord); ok {
			records = append(records, t)
		}
	}

	if len(records) == 0 {
		return nil, &NotFoundError{Name: name, Type: wire.TypeTXT}
	}

	return records, nil
}

// QueryPTR resolves the names that map to addr, which may be a literal IP
// address (in which case it is rewritten to its in-addr.arpa/ip6.arpa form)
// or an already-qualified PTR query name.
func (r *Resolver) QueryPTR(ctx context.Context, addr string) ([]string, error) {
	fqdn := addr
	if arpa, ok := IPToARPA(addr); ok {
		fqdn = arpa
	}

	res, err := r.query(ctx, fqdn, wire.TypePTR)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, rec := range res.Answers {
		if p, ok := rec.Data.(wire.PTRRecord); ok {
			names = append(names, p.Target)
		}
	}

	if len(names) == 0 {
		return nil, &NotFoundError{Name: fqdn, Type: wire.TypePTR}
	}

	return names, nil
}

// query builds a single-question Message for name/qtype and dispatches it
// via the unicast or multicast path, trying each name produced by the
// configured search list until one yields a reply.
func (r *Resolver) query(ctx context.Context, name string, qtype uint16) (*wire.Message, error) {
	cfg := r.Config
	if cfg == nil {
		cfg = DefaultConfig
	}

	var lastErr error

	for _, fqdn := range cfg.NameList(name) {
		req := &wire.Message{
			Questions: []wire.Question{
				{Name: fqdn, Type: qtype, Class: wire.ClassInternet},
			},
		}

		var (
			res *wire.Message
			err error
		)

		if r.isMulticast(fqdn) {
			res, err = r.queryMulticast(ctx, req)
		} else {
			res, err = r.queryUnicast(ctx, req)
		}

		if err != nil {
			lastErr = err
			continue
		}

		if res != nil {
			return res, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}

	return nil, &NotFoundError{Name: name, Type: qtype}
}

func (r *Resolver) queryUnicast(ctx context.Context, req *wire.Message) (*wire.Message, error) {
	cfg := r.Config
	if cfg == nil {
		cfg = DefaultConfig
	}

	cli := r.Unicast
	if cli == nil {
		cli = client.DefaultUnicast
	}

	var lastErr error

	for _, ns := range cfg.Servers {
		addr := net.JoinHostPort(ns, cfg.Port)

		res, err := cli.Query(ctx, req, addr)
		if err != nil {
			lastErr = err
			continue
		}

		if res.Header.Rcode == wire.RcodeNameError || res.Header.Rcode == wire.RcodeSuccess {
			return res, nil
		}
	}

	return nil, lastErr
}

func (r *Resolver) queryMulticast(ctx context.Context, req *wire.Message) (*wire.Message, error) {
	cli := r.Multicast
	if cli == nil {
		cli = client.DefaultMulticast
	}

	wait := r.MulticastWait
	if wait == 0 {
		wait = client.DefaultMulticastWait
	}
	if w, ok := MulticastWait(ctx); ok {
		wait = w
	}

	return cli.Query(ctx, req, wait)
}

func (r *Resolver) isMulticast(fqdn string) bool {
	if r.IsMulticast != nil {
		return r.IsMulticast(fqdn)
	}

	return strings.HasSuffix(fqdn, ".local.")
}
