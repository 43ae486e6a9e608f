package httpd

import (
	"context"
	"mime/multipart"
	"net/url"

	"github.com/mailhaven/webserve/core/session"
)

// Verdict tags the outcome of a command execution. It replaces exception
// style control flow for redirects and output suppression with an explicit
// variant the dispatcher pattern-matches on.
type Verdict int

const (
	// Continue means the result carries data for the rendering layer.
	Continue Verdict = iota
	// Redirect means the client must be redirected to Result.Location.
	Redirect
	// Suppress means no body may be written at all; the dispatcher finishes
	// the request without further output.
	Suppress
)

// Result is the tagged outcome of running a command.
type Result struct {
	Verdict  Verdict
	Location string
	Data     any
}

// Command is the uniform contract for executable command objects returned by
// the routing layer. MaxAge and ETagData feed cache negotiation before Run is
// ever called; IsHangingActivity marks long-running work that must not count
// against the concurrency gate's idle threshold while executing.
type Command interface {
	Run(ctx context.Context) (Result, error)
	MaxAge() int
	ETagData() []string
	IsHangingActivity() bool
}

// RouteRequest is the reconstructed per-connection request context handed to
// the routing layer: method, decoded path, query parameters and, for mutating
// methods, parsed body parameters. It is never retained across requests.
type RouteRequest struct {
	Method    string
	Path      string
	Query     url.Values
	Post      url.Values
	Multipart *multipart.Form
	Session   *session.Session[*AppConfig]
}

// Router is the external routing collaborator. It maps a request to an
// ordered list of executable commands, or fails with ErrUsage when no route
// matches, ErrAccessDenied on authorization failure, or ErrAuthRequired when
// credentials are missing.
type Router interface {
	Map(ctx context.Context, req RouteRequest) ([]Command, error)
}

// Renderer is the external rendering collaborator. RenderResponse turns the
// last command result into a response body; RenderError produces the body of
// an error page.
type Renderer interface {
	RenderResponse(sess *session.Session[*AppConfig], result Result) (mimetype string, body []byte, err error)
	RenderError(title, message string) (mimetype string, body []byte)
}
