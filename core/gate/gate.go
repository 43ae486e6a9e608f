package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultTickInterval is the polling interval used by WaitUntilIdle.
	DefaultTickInterval = 50 * time.Millisecond
	// DefaultTickBudget bounds how many polls WaitUntilIdle performs before
	// giving up. The wait is always bounded; it never hangs forever.
	DefaultTickBudget = 100
)

// Gate tracks the number of in-flight requests and lets the host application
// quiesce the server: a waiter holds the admission lock, which blocks new
// requests from being admitted, until traffic drops to a target level.
//
// The counter is atomic; the admission lock is the only coarse-grained piece
// of shared state, and it is never held across request work.
type Gate struct {
	admission    sync.Mutex
	live         atomic.Int64
	tickInterval time.Duration
	tickBudget   int
}

// Option configures a Gate.
type Option func(*Gate)

// WithTickInterval sets the polling interval for WaitUntilIdle.
func WithTickInterval(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.tickInterval = d
		}
	}
}

// WithTickBudget sets the maximum number of polls WaitUntilIdle performs.
func WithTickBudget(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.tickBudget = n
		}
	}
}

// New creates a Gate with the default tick interval and budget.
func New(opts ...Option) *Gate {
	g := &Gate{
		tickInterval: DefaultTickInterval,
		tickBudget:   DefaultTickBudget,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enter admits a request, incrementing the in-flight counter. It passes
// through the admission lock so that a quiescing host blocks new admissions
// until it releases the gate.
func (g *Gate) Enter() {
	g.admission.Lock()
	g.live.Add(1)
	g.admission.Unlock()
}

// Exit marks a request as finished. It must be called exactly once per Enter,
// including on every error path.
func (g *Gate) Exit() {
	g.live.Add(-1)
}

// BeginHanging exempts a long-running command's work from the in-flight
// counter so that it does not block WaitUntilIdle indefinitely. The request
// is counted while queued and dispatching, but not while hanging.
func (g *Gate) BeginHanging() {
	g.live.Add(-1)
}

// EndHanging re-admits the request after its hanging work completes.
func (g *Gate) EndHanging() {
	g.live.Add(1)
}

// InFlight returns the current number of counted in-flight requests.
func (g *Gate) InFlight() int64 {
	return g.live.Load()
}

// WaitUntilIdle blocks the calling (non-request) goroutine until the
// in-flight counter drops to allowed or fewer, the context is canceled, or
// the tick budget elapses. It acquires the admission lock before waiting and
// returns a release function that the caller must invoke once its maintenance
// work is done; until then no new requests are admitted.
//
// The returned bool reports whether the idle target was actually reached.
func (g *Gate) WaitUntilIdle(ctx context.Context, allowed int64) (release func(), idle bool) {
	g.admission.Lock()
	release = func() { g.admission.Unlock() }

	for tick := 0; tick < g.tickBudget; tick++ {
		if g.live.Load() <= allowed {
			return release, true
		}
		select {
		case <-ctx.Done():
			return release, false
		case <-time.After(g.tickInterval):
		}
	}
	return release, g.live.Load() <= allowed
}
