package mdns

import (
	"context"
	"math/rand"
	"time"
)

// responseDelayMin and responseDelayMax bound the random delay applied to
// multicast responses, per https://tools.ietf.org/html/rfc6762#section-6:
// "the Multicast DNS responder MUST delay its response by a random amount
// of time selected with uniform random distribution in the range 20-120
// ms".
const (
	responseDelayMin = 20 * time.Millisecond
	responseDelayMax = 120 * time.Millisecond
)

// probeDelayMax is the upper bound of the random delay a host waits before
// sending its first probe packet, per
// https://tools.ietf.org/html/rfc6762#section-8.1.
const probeDelayMax = 250 * time.Millisecond

// randT returns a random duration in [0, d).
func randT(d time.Duration) time.Duration {
	return randTBetween(0, d)
}

// randTBetween returns a random duration in [min, max).
func randTBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// responseDelay returns a random delay to apply before sending a multicast
// response, independently sampled for each response.
func responseDelay() time.Duration {
	return randTBetween(responseDelayMin, responseDelayMax)
}

// newQueryID returns a random 16-bit query ID for a legacy (one-shot) mDNS
// query, analogous to a conventional unicast query ID.
func newQueryID() uint16 {
	return uint16(rand.Intn(1 << 16))
}

// sleep sleeps for d, or until ctx is canceled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
