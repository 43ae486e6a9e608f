// Package cache negotiates conditional-request caching for dynamic content:
// it folds the per-command cache contributions of a request into a single
// ETag and Cache-Control decision, and short-circuits with "not modified"
// when the client already holds the current fingerprint.
//
// Negotiation is skipped entirely when the server runs in verbose debug
// mode; that choice belongs to the dispatcher.
package cache
