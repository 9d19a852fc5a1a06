// Package query tracks in-flight DNS queries by message ID and matches
// inbound replies back to the callback that should receive them.
//
// A Registry owns a single goroutine, serializing every mutation of its
// query table through a command channel, in the same style as the mDNS
// responder's main loop: callers never touch the table directly, they send
// a command and the loop applies it.
package query

import (
	"context"
	"net"
	"time"

	"github.com/dogmatiq/dissolve/wire"
)

// command is a unit of work executed within the registry's run loop.
type command func(r *Registry)

// Registry allocates query IDs, remembers the callback associated with each
// sent query, and resolves or times them out as replies and deadlines
// arrive.
type Registry struct {
	commands chan command
	done     chan struct{}

	nextID  uint16
	pending map[uint16]*SentQuery
}

// NewRegistry returns a new, empty Registry. Callers must invoke Run in a
// goroutine before sending any queries.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(chan command),
		done:     make(chan struct{}),
		pending:  make(map[uint16]*SentQuery),
	}
}

// Run processes registry commands until ctx is canceled. Any queries still
// pending when it returns are failed with a CancelledError.
func (r *Registry) Run(ctx context.Context) error {
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			for id, q := range r.pending {
				q.fail(&CancelledError{ID: id})
				delete(r.pending, id)
			}
			return ctx.Err()

		case c := <-r.commands:
			c(r)
		}
	}
}

// execute runs c on the registry's goroutine and waits for it to complete.
func (r *Registry) execute(ctx context.Context, c command) error {
	done := make(chan struct{})
	wrapped := func(r *Registry) {
		c(r)
		close(done)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRegistryStopped
	case r.commands <- wrapped:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Send allocates a new query ID, stamps it onto msg's header, and arranges
// for cb to be invoked when a reply with that ID is delivered via Dispatch,
// or when deadline passes, whichever happens first. It returns the
// allocated ID so the caller can transmit msg.
func (r *Registry) Send(
	ctx context.Context,
	msg *wire.Message,
	deadline time.Time,
	cb Callback,
) (uint16, error) {
	var id uint16

	err := r.execute(ctx, func(r *Registry) {
		id = r.allocateID()
		msg.Header.ID = id

		q := &SentQuery{
			ID:       id,
			Deadline: deadline,
			Callback: cb,
		}
		r.pending[id] = q

		d := time.Until(deadline)
		q.timer = time.AfterFunc(d, func() {
			timeout := func(r *Registry) {
				if cur, ok := r.pending[id]; ok && cur == q && cur.state == statePending {
					cur.fail(&TimeoutError{ID: id})
					delete(r.pending, id)
				}
			}

			select {
			case r.commands <- timeout:
			case <-r.done:
			}
		})
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// allocateID returns the next query ID not currently in use, wrapping
// around the 16-bit ID space. It must only be called from the run loop.
func (r *Registry) allocateID() uint16 {
	for {
		id := r.nextID
		r.nextID++

		if _, taken := r.pending[id]; !taken {
			return id
		}
	}
}

// Dispatch delivers reply to the query matching its header ID, if any, and
// reports whether a pending query was found. Replies with no matching
// pending query (duplicates, stragglers after a timeout, or unsolicited
// messages) are reported via the bool result rather than an error, since
// that is an expected occurrence rather than a protocol violation.
//
// If the matched query's callback returns Continue (used by mDNS, where a
// single question can draw more than one response), the entry is left in
// place so further replies with the same ID keep reaching it; it is
// evicted only once the callback returns Done.
func (r *Registry) Dispatch(ctx context.Context, reply *wire.Message, from net.Addr) (bool, error) {
	var found bool

	err := r.execute(ctx, func(r *Registry) {
		q, ok := r.pending[reply.Header.ID]
		if !ok {
			return
		}
		found = true
		if q.resolve(reply, from) == Done {
			q.evict()
			delete(r.pending, reply.Header.ID)
		}
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

// Cancel fails the query with the given ID, if it is still pending.
func (r *Registry) Cancel(ctx context.Context, id uint16) error {
	return r.execute(ctx, func(r *Registry) {
		if q, ok := r.pending[id]; ok {
			q.fail(&CancelledError{ID: id})
			delete(r.pending, id)
		}
	})
}

// Pending returns the number of queries currently awaiting a reply or
// timeout. It is intended for tests and diagnostics.
func (r *Registry) Pending(ctx context.Context) (int, error) {
	var n int
	err := r.execute(ctx, func(r *Registry) {
		n = len(r.pending)
	})
	return n, err
}
