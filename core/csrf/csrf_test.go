package csrf_test

import (
	"crypto/sha1"
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailhaven/webserve/core/csrf"
)

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func TestTokenizer_Generate(t *testing.T) {
	t.Parallel()

	t.Run("matches the wire format", func(t *testing.T) {
		t.Parallel()

		const secret = "test-secret"
		const now = int64(1700000000)

		tok := csrf.New(secret, csrf.WithClock(fixedClock(now)))

		ts := strconv.FormatInt(now/60, 16)
		sum := sha1.Sum([]byte(secret + "-" + ts))
		want := ts + "-" + base64.RawURLEncoding.EncodeToString(sum[:])

		assert.Equal(t, want, tok.Generate())
	})

	t.Run("is stable within a minute bucket", func(t *testing.T) {
		t.Parallel()

		a := csrf.New("s", csrf.WithClock(fixedClock(1700000000)))
		b := csrf.New("s", csrf.WithClock(fixedClock(1700000030)))
		assert.Equal(t, a.Generate(), b.Generate())
	})

	t.Run("varies across buckets and secrets", func(t *testing.T) {
		t.Parallel()

		a := csrf.New("s", csrf.WithClock(fixedClock(1700000000)))
		b := csrf.New("s", csrf.WithClock(fixedClock(1700000060)))
		c := csrf.New("other", csrf.WithClock(fixedClock(1700000000)))
		assert.NotEqual(t, a.Generate(), b.Generate())
		assert.NotEqual(t, a.Generate(), c.Generate())
	})
}

func TestTokenizer_Verify(t *testing.T) {
	t.Parallel()

	t.Run("accepts a token from the current window", func(t *testing.T) {
		t.Parallel()

		tok := csrf.New("secret", csrf.WithClock(fixedClock(1700000000)))
		assert.True(t, tok.Verify(tok.Generate(), 0))
	})

	t.Run("accepts the previous window within skew", func(t *testing.T) {
		t.Parallel()

		issuer := csrf.New("secret", csrf.WithClock(fixedClock(1700000000)))
		verifier := csrf.New("secret", csrf.WithClock(fixedClock(1700000061)))

		token := issuer.Generate()
		require.False(t, verifier.Verify(token, 0))
		assert.True(t, verifier.Verify(token, 1))
	})

	t.Run("rejects tampered and malformed tokens", func(t *testing.T) {
		t.Parallel()

		tok := csrf.New("secret", csrf.WithClock(fixedClock(1700000000)))
		token := tok.Generate()

		assert.False(t, tok.Verify(token+"x", 0))
		assert.False(t, tok.Verify("", 0))
		assert.False(t, tok.Verify("nodash", 0))
		assert.False(t, tok.Verify("deadbeef-", 0))
	})

	t.Run("rejects tokens issued by another instance", func(t *testing.T) {
		t.Parallel()

		a := csrf.New("secret-a", csrf.WithClock(fixedClock(1700000000)))
		b := csrf.New("secret-b", csrf.WithClock(fixedClock(1700000000)))
		assert.False(t, b.Verify(a.Generate(), 0))
	})
}
