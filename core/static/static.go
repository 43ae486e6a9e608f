package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// cacheControl is the long-lived policy for static assets. Static content is
// assumed effectively immutable for the life of the instance, so a long fixed
// max-age is cheaper and sufficient; no ETag is emitted.
const cacheControl = "must-revalidate, max-age=36000"

// Server serves theme files by logical name, guarding against path traversal
// and classifying filesystem failures into access-denied, not-found and
// internal errors.
type Server struct {
	defaultRoot string
	hostRoots   map[string]string
}

// Option configures a Server.
type Option func(*Server)

// WithHostRoot maps a request host to its own theme root, overriding the
// default for that host.
func WithHostRoot(host, root string) Option {
	return func(s *Server) {
		s.hostRoots[host] = filepath.Clean(root)
	}
}

// New creates a static asset server rooted at the given theme directory.
func New(defaultRoot string, opts ...Option) *Server {
	s := &Server{
		defaultRoot: filepath.Clean(defaultRoot),
		hostRoots:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// root resolves the active theme root for a request host.
func (s *Server) root(host string) string {
	if r, ok := s.hostRoots[host]; ok {
		return r
	}
	return s.defaultRoot
}

// Open resolves a logical path against the active theme for host and returns
// the open file and its size. Any path containing a parent-directory
// traversal sequence is rejected with ErrAccessDenied before the filesystem
// is touched. The caller owns the returned file and must close it.
func (s *Server) Open(host, name string) (fs.File, int64, error) {
	if strings.Contains(name, "..") {
		return nil, 0, ErrAccessDenied
	}

	f, err := os.Open(filepath.Join(s.root(host), filepath.FromSlash(name)))
	if err != nil {
		return nil, 0, classify(err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, classify(err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, ErrNotFound
	}
	return f, info.Size(), nil
}

// Serve writes the asset named by logicalPath to the response, with the
// long-lived static cache policy, and returns the status code it sent. The
// body is omitted when suppressBody is set (HEAD requests) but
// Content-Length is still sent. The file handle is released on every exit
// path.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, logicalPath string, suppressBody bool) int {
	host := requestHost(r)

	f, size, err := s.Open(host, logicalPath)
	if err != nil {
		code, msg := errorStatus(err)
		w.Header().Set("Cache-Control", cacheControl)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		if !suppressBody {
			fmt.Fprintln(w, msg)
		}
		return code
	}
	defer f.Close()

	mimetype := GuessMimetype(logicalPath)
	if strings.HasPrefix(mimetype, "text/") && !strings.Contains(mimetype, ";") {
		mimetype += "; charset=utf-8"
	}

	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Type", mimetype)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	w.WriteHeader(http.StatusOK)
	if !suppressBody {
		_, _ = io.Copy(w, f)
	}
	return http.StatusOK
}

// classify maps underlying I/O failures onto the static error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrAccessDenied
	default:
		return errors.Join(ErrInternal, err)
	}
}

// errorStatus maps a static error onto its HTTP status and message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden, "Access denied"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// requestHost strips the port from the request's Host header.
func requestHost(r *http.Request) string {
	host := r.Host
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		host = "localhost"
	}
	return host
}
