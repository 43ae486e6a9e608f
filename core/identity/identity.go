package identity

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	// secretRandomBytes guarantees at least 256 bits of entropy from the
	// system CSPRNG alone; process identity and wall-clock inputs are mixed
	// in on top of that.
	secretRandomBytes = 64

	// cookieNameLength is the length of the randomized session cookie name.
	cookieNameLength = 8
)

// Identity holds the per-instance server secret and the randomized session
// cookie name. Both values are fixed for the lifetime of the process and must
// never be logged or exposed in responses.
type Identity struct {
	secret     string
	cookieName string
}

// New generates a fresh server identity. Generation always succeeds: the
// cookie-name derivation retries with a new salt in the degenerate case where
// filtering leaves an empty string.
func New() *Identity {
	id := &Identity{secret: newSecret()}
	for id.cookieName == "" {
		id.cookieName = deriveCookieName(id.secret)
	}
	return id
}

// Secret returns the instance secret used as keying material for derived
// tokens (session ids, CSRF tokens, ETags). It is never transmitted.
func (id *Identity) Secret() string {
	return id.secret
}

// CookieName returns the 8-character lowercase alphanumeric session cookie
// name. It is unpredictable per process instance so a shared cookie name
// cannot be used to fingerprint or collude across instances.
func (id *Identity) CookieName() string {
	return id.cookieName
}

// newSecret hashes process identity, wall-clock time and CSPRNG output into
// an opaque web-safe string.
func newSecret() string {
	buf := make([]byte, secretRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand is documented to never fail on supported platforms.
		panic("identity: system randomness unavailable: " + err.Error())
	}

	hostname, _ := os.Hostname()
	h := sha512.New()
	fmt.Fprintf(h, "%d-%s-%d-", os.Getpid(), hostname, time.Now().UnixNano())
	h.Write(buf)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// deriveCookieName derives a lowercase alphanumeric name from the secret and
// a fresh random salt via HKDF-SHA512. Returns "" if filtering consumed the
// whole expansion, in which case the caller retries with a new salt.
func deriveCookieName(secret string) string {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		panic("identity: system randomness unavailable: " + err.Error())
	}

	kdf := hkdf.New(sha512.New, []byte(secret), salt, []byte("session-cookie-name"))
	expanded := make([]byte, 32)
	if _, err := io.ReadFull(kdf, expanded); err != nil {
		return ""
	}

	name := make([]byte, 0, cookieNameLength)
	for _, c := range base64.RawURLEncoding.EncodeToString(expanded) {
		switch {
		case c >= 'a' && c <= 'z':
			name = append(name, byte(c))
		case c >= 'A' && c <= 'Z':
			name = append(name, byte(c)+'a'-'A')
		case c >= '0' && c <= '9':
			name = append(name, byte(c))
		}
		if len(name) == cookieNameLength {
			break
		}
	}
	if len(name) < cookieNameLength {
		return ""
	}
	return string(name)
}
