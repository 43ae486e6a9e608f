package csrf

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Tokenizer derives time-windowed anti-forgery tokens from the server secret.
// Tokens are bucketed by minute, which tolerates minor clock granularity
// drift while bounding token lifetime.
type Tokenizer struct {
	secret string
	now    func() time.Time
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tokenizer) {
		if now != nil {
			t.now = now
		}
	}
}

// New creates a Tokenizer keyed by the server secret.
func New(secret string, opts ...Option) *Tokenizer {
	t := &Tokenizer{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Generate returns a token in the form
// "<hex-epoch-minutes>-<websafe-hash(secret + "-" + hex-epoch-minutes)>".
func (t *Tokenizer) Generate() string {
	ts := strconv.FormatInt(t.now().Unix()/60, 16)
	return ts + "-" + t.mac(ts)
}

// Verify recomputes the token for the current minute bucket and up to skew
// earlier buckets and compares in constant time. Verification is normally the
// router's job; this is provided for hosts that consume the same derivation.
func (t *Tokenizer) Verify(token string, skew int) bool {
	ts, mac, ok := strings.Cut(token, "-")
	if !ok || ts == "" || mac == "" {
		return false
	}

	now := t.now().Unix() / 60
	for i := int64(0); i <= int64(skew); i++ {
		bucket := strconv.FormatInt(now-i, 16)
		if ts != bucket {
			continue
		}
		want := t.mac(bucket)
		return subtle.ConstantTimeCompare([]byte(mac), []byte(want)) == 1
	}
	return false
}

// mac hashes the secret with the minute bucket into a web-safe string.
func (t *Tokenizer) mac(ts string) string {
	sum := sha1.Sum([]byte(t.secret + "-" + ts))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
