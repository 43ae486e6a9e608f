// Package httpd is the request-handling core of the embedded local web
// server: the per-connection dispatcher plus the contracts it shares with
// the external routing and rendering collaborators.
//
// A request moves through a fixed state machine:
//
//	Received -> Admitted -> SessionResolved -> {StaticServed | Routed} ->
//	{CacheShortCircuited | Executed} -> ResponseSent
//
// Admission and completion always bracket the concurrency gate, including on
// every error path. Static asset prefixes short-circuit before any session
// or routing work. Cache negotiation may finish the request with an empty
// 304 before any command executes. Commands flagged as hanging activities
// are exempted from the gate's in-flight counter while their long-running
// work is in flight.
//
// The routing layer, the rendering engine and the application configuration
// store are external collaborators, reached through the Router, Renderer and
// AppConfig types.
package httpd
