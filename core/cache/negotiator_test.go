package cache_test

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailhaven/webserve/core/cache"
)

type stubContributor struct {
	maxAge   int
	etagData []string
}

func (s stubContributor) MaxAge() int        { return s.maxAge }
func (s stubContributor) ETagData() []string { return s.etagData }

func TestNegotiator_Evaluate(t *testing.T) {
	t.Parallel()

	t.Run("etag is a pure function of secret and fragments", func(t *testing.T) {
		t.Parallel()

		n := cache.New("secret")
		cmds := []cache.Contributor{
			stubContributor{maxAge: 60, etagData: []string{"a", "b"}},
			stubContributor{maxAge: 30, etagData: []string{"c"}},
		}

		first := n.Evaluate(cmds, "")
		second := n.Evaluate(cmds, "")
		require.NotEmpty(t, first.ETag)
		assert.Equal(t, first.ETag, second.ETag, "same inputs must produce the same ETag")

		sum := md5.Sum([]byte("secret-a-b-c"))
		assert.Equal(t, hex.EncodeToString(sum[:]), first.ETag)
	})

	t.Run("changing any fragment changes the etag", func(t *testing.T) {
		t.Parallel()

		n := cache.New("secret")
		base := n.Evaluate([]cache.Contributor{stubContributor{etagData: []string{"a", "b"}}}, "")
		changed := n.Evaluate([]cache.Contributor{stubContributor{etagData: []string{"a", "x"}}}, "")
		assert.NotEqual(t, base.ETag, changed.ETag)
	})

	t.Run("etags do not correlate across instances", func(t *testing.T) {
		t.Parallel()

		cmds := []cache.Contributor{stubContributor{etagData: []string{"a"}}}
		assert.NotEqual(t,
			cache.New("one").Evaluate(cmds, "").ETag,
			cache.New("two").Evaluate(cmds, "").ETag)
	})

	t.Run("partial contribution never yields an etag", func(t *testing.T) {
		t.Parallel()

		n := cache.New("secret")
		d := n.Evaluate([]cache.Contributor{
			stubContributor{maxAge: 60, etagData: []string{"a"}},
			stubContributor{maxAge: 30}, // no fragments
		}, "")

		assert.Empty(t, d.ETag)
		assert.False(t, d.NotModified)
		assert.Equal(t, "must-revalidate, max-age=30", d.CacheControl)
	})

	t.Run("matching conditional header short-circuits", func(t *testing.T) {
		t.Parallel()

		n := cache.New("secret")
		cmds := []cache.Contributor{stubContributor{maxAge: 60, etagData: []string{"a"}}}

		etag := n.Evaluate(cmds, "").ETag
		require.NotEmpty(t, etag)

		d := n.Evaluate(cmds, etag)
		assert.True(t, d.NotModified)

		d = n.Evaluate(cmds, "some-other-etag")
		assert.False(t, d.NotModified)
	})

	t.Run("max-age is the minimum across commands", func(t *testing.T) {
		t.Parallel()

		n := cache.New("secret")
		d := n.Evaluate([]cache.Contributor{
			stubContributor{maxAge: 120, etagData: []string{"a"}},
			stubContributor{maxAge: 15, etagData: []string{"b"}},
			stubContributor{maxAge: 3600, etagData: []string{"c"}},
		}, "")
		assert.Equal(t, "must-revalidate, max-age=15", d.CacheControl)
	})

	t.Run("defaults to a small max-age with no commands", func(t *testing.T) {
		t.Parallel()

		d := cache.New("secret").Evaluate(nil, "")
		assert.Equal(t, "must-revalidate, max-age=10", d.CacheControl)
	})
}
