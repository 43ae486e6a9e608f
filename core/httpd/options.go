package httpd

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mailhaven/webserve/core/gate"
	"github.com/mailhaven/webserve/core/session"
	"github.com/mailhaven/webserve/core/static"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithGate replaces the default concurrency gate, letting the host share one
// gate across several dispatchers.
func WithGate(g *gate.Gate) Option {
	return func(d *Dispatcher) {
		if g != nil {
			d.gate = g
		}
	}
}

// WithSessionManager replaces the default session manager.
func WithSessionManager(m *session.Manager[*AppConfig]) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.sessions = m
		}
	}
}

// WithStatic sets the static asset server (theme roots).
func WithStatic(s *static.Server) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.assets = s
		}
	}
}

// WithDebug enables the named debug facilities ("http", "httpdata").
// Debug mode disables cache negotiation, honors the short static alias
// prefix, and returns detailed diagnostics on unhandled errors.
func WithDebug(facilities ...string) Option {
	return func(d *Dispatcher) {
		for _, f := range facilities {
			if f != "" {
				d.debug[f] = true
			}
		}
	}
}

// WithMaxFormBytes overrides the URL-encoded body size cap.
func WithMaxFormBytes(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxForm = n
		}
	}
}

// WithMetrics registers request metrics (in-flight gauge, responses by
// status class) with the given registerer. Registration happens after all
// options are applied, so ordering relative to WithGate does not matter.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(d *Dispatcher) {
		d.metricsReg = reg
	}
}
