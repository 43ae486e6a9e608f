package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultMaxAge is the max-age applied when no command contributes one.
const DefaultMaxAge = 10

// Contributor is the per-command cache contribution contract: a maximum age
// in seconds and an ordered list of opaque fingerprint fragments. An empty
// fragment list means the command cannot be fingerprinted.
type Contributor interface {
	MaxAge() int
	ETagData() []string
}

// Decision is the outcome of cache negotiation for one request.
type Decision struct {
	// NotModified reports that the conditional header matched and the
	// request must short-circuit with 304 and no command execution.
	NotModified bool

	// ETag is the content fingerprint to emit, empty when any command
	// failed to contribute fragments.
	ETag string

	// CacheControl is the cache lifetime header value for dynamic content.
	CacheControl string
}

// Negotiator computes content fingerprints and cache lifetimes from the set
// of commands a request will execute. Coupling the fingerprint to the server
// secret prevents clients from correlating ETags across server instances.
type Negotiator struct {
	secret string
}

// New creates a Negotiator keyed by the server secret.
func New(secret string) *Negotiator {
	return &Negotiator{secret: secret}
}

// Evaluate collects each command's cache contribution and compares the
// resulting fingerprint against the request's conditional header.
//
// An ETag is only computed when every command contributed at least one
// fragment; a partial contribution set must never produce a falsely
// conditional response. The max-age is the minimum across all commands,
// falling back to DefaultMaxAge when none contribute.
//
// Evaluate is side-effect free: on a match the caller skips command
// execution entirely.
func (n *Negotiator) Evaluate(commands []Contributor, ifNoneMatch string) Decision {
	var (
		fragments   []string
		maxAges     []int
		contributed int
	)
	for _, c := range commands {
		maxAges = append(maxAges, c.MaxAge())
		if data := c.ETagData(); len(data) > 0 {
			contributed++
			fragments = append(fragments, data...)
		}
	}

	d := Decision{CacheControl: fmt.Sprintf("must-revalidate, max-age=%d", minAge(maxAges))}

	if contributed == len(commands) {
		d.ETag = n.fingerprint(fragments)
		if ifNoneMatch == d.ETag {
			d.NotModified = true
		}
	}
	return d
}

// fingerprint hashes the secret and the ordered fragments. The fingerprint
// varies with its inputs but leaks nothing about server configuration.
func (n *Negotiator) fingerprint(fragments []string) string {
	sum := md5.Sum([]byte(n.secret + "-" + strings.Join(fragments, "-")))
	return hex.EncodeToString(sum[:])
}

func minAge(ages []int) int {
	if len(ages) == 0 {
		return DefaultMaxAge
	}
	min := ages[0]
	for _, a := range ages[1:] {
		if a < min {
			min = a
		}
	}
	return min
}
