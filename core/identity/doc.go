// Package identity generates the per-instance server secret and the
// randomized session cookie name at startup.
//
// The secret is derived from process identity, wall-clock time and the system
// CSPRNG, carries at least 256 bits of entropy, and serves as keying material
// for every token the server derives (session identifiers, CSRF tokens, cache
// fingerprints). Neither the secret nor the cookie name is ever persisted,
// logged or sent over the wire.
package identity
