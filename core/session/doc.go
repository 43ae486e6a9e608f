// Package session resolves or mints per-visitor session identifiers and
// constructs the ephemeral per-request session objects the dispatcher hands
// to the rendering layer.
//
// The design is deliberately two-layered: a durable identifier registry that
// only guards uniqueness of minted ids, and a fully ephemeral, non-persisted
// Session value created per request. Sessions are not durable across
// restarts and no session content is stored server-side.
package session
