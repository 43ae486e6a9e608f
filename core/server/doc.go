// Package server wraps http.Server with a single-run lifecycle, functional
// options and environment-driven configuration for the embedded local web
// server. It binds to the loopback interface by default: the process serves
// exactly one trusted local application instance. Shutdown can be tied to
// the dispatcher's concurrency gate so in-flight requests drain before the
// listener closes.
package server
