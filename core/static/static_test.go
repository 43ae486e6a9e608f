package static_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailhaven/webserve/core/static"
)

func writeTheme(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestServer_Open(t *testing.T) {
	t.Parallel()

	t.Run("rejects traversal before touching the filesystem", func(t *testing.T) {
		t.Parallel()

		// The root does not exist, so any filesystem access would fail with
		// not-found rather than access-denied.
		s := static.New(filepath.Join(t.TempDir(), "missing"))

		for _, name := range []string{
			"../secret",
			"a/../../secret",
			"..",
			"style/..%2f..%2fsecret/..",
		} {
			_, _, err := s.Open("localhost", name)
			assert.ErrorIs(t, err, static.ErrAccessDenied, "path %q", name)
		}
	})

	t.Run("classifies missing files as not found", func(t *testing.T) {
		t.Parallel()

		s := static.New(writeTheme(t, nil))
		_, _, err := s.Open("localhost", "nope.css")
		assert.ErrorIs(t, err, static.ErrNotFound)
	})

	t.Run("opens an existing file and reports its size", func(t *testing.T) {
		t.Parallel()

		s := static.New(writeTheme(t, map[string]string{"css/style.css": "body {}"}))
		f, size, err := s.Open("localhost", "css/style.css")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, int64(len("body {}")), size)
	})

	t.Run("directories resolve as not found", func(t *testing.T) {
		t.Parallel()

		s := static.New(writeTheme(t, map[string]string{"css/style.css": "body {}"}))
		_, _, err := s.Open("localhost", "css")
		assert.ErrorIs(t, err, static.ErrNotFound)
	})

	t.Run("per-host theme roots override the default", func(t *testing.T) {
		t.Parallel()

		def := writeTheme(t, map[string]string{"a.txt": "default"})
		alt := writeTheme(t, map[string]string{"a.txt": "alternate"})
		s := static.New(def, static.WithHostRoot("example.test", alt))

		f, size, err := s.Open("example.test", "a.txt")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, int64(len("alternate")), size)
	})
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	t.Run("serves a file with long-lived cache policy", func(t *testing.T) {
		t.Parallel()

		s := static.New(writeTheme(t, map[string]string{"app.js": "console.log(1)"}))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/static/app.js", nil)

		code := s.Serve(w, r, "app.js", false)
		assert.Equal(t, http.StatusOK, code)

		res := w.Result()
		assert.Equal(t, "must-revalidate, max-age=36000", res.Header.Get("Cache-Control"))
		assert.Equal(t, "text/javascript; charset=utf-8", res.Header.Get("Content-Type"))
		assert.Empty(t, res.Header.Get("ETag"), "static assets carry no ETag")
		assert.Equal(t, "console.log(1)", w.Body.String())
	})

	t.Run("suppresses the body but keeps content length", func(t *testing.T) {
		t.Parallel()

		s := static.New(writeTheme(t, map[string]string{"a.txt": "hello"}))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodHead, "/static/a.txt", nil)

		code := s.Serve(w, r, "a.txt", true)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "5", w.Result().Header.Get("Content-Length"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("missing files yield 404", func(t *testing.T) {
		t.Parallel()

		s := static.New(writeTheme(t, nil))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/static/none.png", nil)

		assert.Equal(t, http.StatusNotFound, s.Serve(w, r, "none.png", false))
	})

	t.Run("traversal yields 403", func(t *testing.T) {
		t.Parallel()

		s := static.New(writeTheme(t, nil))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/static/../etc/passwd", nil)

		assert.Equal(t, http.StatusForbidden, s.Serve(w, r, "../etc/passwd", false))
	})
}

func TestGuessMimetype(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"a.py":        "text/plain",
		"notes.md":    "text/plain",
		"style.css":   "text/css",
		"app.js":      "text/javascript",
		"data.json":   "application/json",
		"icon.ico":    "image/x-icon",
		"photo.jpeg":  "image/jpeg",
		"feed.rss":    "application/rss+xml",
		"font.woff":   "application/font-woff",
		"vector.svgz": "image/svg+xml",
		"unknown.zzz": "application/octet-stream",
	}
	for name, want := range cases {
		assert.Equal(t, want, static.GuessMimetype(name), "file %s", name)
	}
}
