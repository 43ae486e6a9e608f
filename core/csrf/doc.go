// Package csrf issues time-windowed anti-forgery tokens derived from the
// server secret. A token is valid for its minute bucket only; the verifier
// recomputes the hash and compares, optionally accepting a small number of
// earlier buckets to absorb clock skew.
package csrf
