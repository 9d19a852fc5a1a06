package resolver

import (
	"context"
	"time"
)

type multicastWaitKeyType struct{}

var multicastWaitKey multicastWaitKeyType

// WithMulticastWait returns a new context that specifies the minimum time a
// Resolver should wait for additional mDNS responses before returning. If
// parent already specifies a longer wait, parent is returned unchanged.
func WithMulticastWait(parent context.Context, w time.Duration) context.Context {
	if e, ok := parent.Value(multicastWaitKey).(time.Duration); ok && e > w {
		return parent
	}

	return context.WithValue(parent, multicastWaitKey, w)
}

// MulticastWait returns the minimum wait duration specified by ctx, if any.
func MulticastWait(ctx context.Context) (w time.Duration, ok bool) {
	w, ok = ctx.Value(multicastWaitKey).(time.Duration)
	return
}

// ResolveMulticastWait resolves the wait duration that applies to ctx to an
// absolute deadline, defaulting to w if ctx does not specify one, and
// capping the result at ctx's own deadline if that occurs sooner.
func ResolveMulticastWait(ctx context.Context, w time.Duration) time.Time {
	if e, ok := ctx.Value(multicastWaitKey).(time.Duration); ok {
		w = e
	}

	t := time.Now().Add(w)

	if d, ok := ctx.Deadline(); ok && d.Before(t) {
		return d
	}

	return t
}
