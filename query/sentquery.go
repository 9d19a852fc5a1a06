package query

import (
	"net"
	"time"

	"github.com/dogmatiq/dissolve/wire"
)

// state is a SentQuery's position in its lifecycle.
type state int

const (
	// statePending means a reply has not yet been received and the deadline
	// has not yet elapsed.
	statePending state = iota

	// stateResolved means a matching reply was delivered to the callback.
	stateResolved

	// stateFailed means the callback has already been invoked with an error
	// (timeout or cancellation).
	stateFailed

	// stateEvicted means the registry has forgotten the query entirely; its
	// ID may be reused by a future allocation.
	stateEvicted
)

// CallbackSignal tells the registry whether a query's entry should be kept
// around for further replies (Continue, for mDNS responders answering the
// same question more than once) or forgotten now that the callback
// considers the query satisfied (Done).
type CallbackSignal int

const (
	// Done evicts the query's entry; no further replies will be delivered
	// to it even if more arrive with the same ID.
	Done CallbackSignal = iota

	// Continue retains the query's entry so additional replies matching its
	// ID keep reaching the callback.
	Continue
)

// Callback is invoked with the reply that matched a sent query's ID, or
// with an error describing why no reply arrived. Its return value is
// ignored on error (the entry is always evicted on timeout or
// cancellation); on a successful reply it decides whether the entry stays
// pending for further replies. The first successful delivery resolves the
// query; it is not re-resolved by later replies, but the callback is still
// invoked for each of them while the entry remains Continue'd.
type Callback func(reply *wire.Message, from net.Addr, err error) CallbackSignal

// SentQuery is the registry's bookkeeping record for a single in-flight
// query. It is only ever touched from the registry's run loop, so it carries
// no locking of its own.
type SentQuery struct {
	ID       uint16
	Deadline time.Time
	Callback Callback

	state state
	timer *time.Timer
}

// resolve delivers reply to the query's callback, returning the signal the
// callback chose. The deadline timer is stopped on the first delivery only;
// once resolved, a query is immune to its own timeout (idempotent: later
// streamed replies do not re-resolve it), but the callback still runs again
// for each further reply while the entry is kept via Continue.
func (q *SentQuery) resolve(reply *wire.Message, from net.Addr) CallbackSignal {
	if q.state == statePending {
		if q.timer != nil {
			q.timer.Stop()
		}
		q.state = stateResolved
	}
	return q.Callback(reply, from, nil)
}

func (q *SentQuery) fail(err error) {
	if q.state != statePending {
		return
	}
	q.state = stateFailed
	if q.timer != nil {
		q.timer.Stop()
	}
	q.Callback(nil, nil, err)
}

func (q *SentQuery) evict() {
	q.state = stateEvicted
}
