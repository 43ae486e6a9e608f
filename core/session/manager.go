package session

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mailhaven/webserve/core/identity"
)

// DefaultCookieMaxAge is the session cookie lifetime (24 hours).
const DefaultCookieMaxAge = 24 * 60 * 60

// Manager resolves or mints session identifiers and constructs ephemeral
// per-request sessions. The only durable state it keeps is the id registry,
// a liveness table used to guarantee that freshly minted identifiers never
// collide; it stores no session content.
type Manager[Config any] struct {
	ident        *identity.Identity
	cfg          Config
	cookieMaxAge int

	mu       sync.Mutex
	registry map[string]struct{}
}

// settings holds the non-generic tunables of a Manager.
type settings struct {
	cookieMaxAge int
}

// Option configures a Manager.
type Option func(*settings)

// WithCookieMaxAge overrides the session cookie lifetime in seconds.
func WithCookieMaxAge(seconds int) Option {
	return func(s *settings) {
		if seconds > 0 {
			s.cookieMaxAge = seconds
		}
	}
}

// NewManager creates a session manager bound to the server identity and the
// shared application configuration.
func NewManager[Config any](ident *identity.Identity, cfg Config, opts ...Option) *Manager[Config] {
	s := settings{cookieMaxAge: DefaultCookieMaxAge}
	for _, opt := range opts {
		opt(&s)
	}
	return &Manager[Config]{
		ident:        ident,
		cfg:          cfg,
		cookieMaxAge: s.cookieMaxAge,
		registry:     make(map[string]struct{}),
	}
}

// ResolveOrMint reads the session cookie by the server's randomized cookie
// name. A present, well-formed value is returned as-is; otherwise a new
// identifier is minted from the request metadata.
func (m *Manager[Config]) ResolveOrMint(r *http.Request) string {
	if c, err := r.Cookie(m.ident.CookieName()); err == nil && wellFormed(c.Value) {
		return c.Value
	}
	return m.MintID(r.Header)
}

// MintID produces an unguessable, unauthenticated session identifier by
// hashing the secret, the request headers, a random value and the current
// time, retrying until the result is absent from the registry. The minted
// identifier is recorded before it is returned, so concurrent mints never
// hand out the same value.
func (m *Manager[Config]) MintID(header http.Header) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		nonce := make([]byte, 8)
		if _, err := rand.Read(nonce); err != nil {
			panic("session: system randomness unavailable: " + err.Error())
		}
		sum := sha1.Sum(fmt.Appendf(nil, "%s %v %x %d",
			m.ident.Secret(), header, nonce, time.Now().UnixNano()))
		id := base64.RawURLEncoding.EncodeToString(sum[:])

		if _, taken := m.registry[id]; !taken {
			m.registry[id] = struct{}{}
			return id
		}
	}
}

// NewEphemeral constructs a fresh per-request Session bound to the shared
// configuration. Sessions are never reused across requests.
func (m *Manager[Config]) NewEphemeral(id string) *Session[Config] {
	return &Session[Config]{
		ID:     id,
		Config: m.cfg,
		Vars:   make(map[string]any),
	}
}

// IssueCookie (re)issues the session cookie on the response: path "/",
// max-age 24 hours by default, with a no-cache="set-cookie" cache-control
// appended so intermediaries never cache the cookie grant.
func (m *Manager[Config]) IssueCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:   m.ident.CookieName(),
		Value:  id,
		Path:   "/",
		MaxAge: m.cookieMaxAge,
	})
	w.Header().Add("Cache-Control", `no-cache="set-cookie"`)
}

// wellFormed filters cookie values to the web-safe alphabet minted ids use.
func wellFormed(v string) bool {
	if v == "" {
		return false
	}
	for _, c := range v {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
