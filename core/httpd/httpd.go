package httpd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mailhaven/webserve/core/cache"
	"github.com/mailhaven/webserve/core/csrf"
	"github.com/mailhaven/webserve/core/gate"
	"github.com/mailhaven/webserve/core/identity"
	"github.com/mailhaven/webserve/core/logger"
	"github.com/mailhaven/webserve/core/session"
	"github.com/mailhaven/webserve/core/static"
)

const (
	// DefaultMaxFormBytes caps URL-encoded request bodies (5 MiB).
	DefaultMaxFormBytes = 5 * 1024 * 1024

	// rpcPrefix is the legacy RPC endpoint prefix, kept in the URL space but
	// rejected on every request.
	rpcPrefix = "/::XMLRPC::/"

	staticPrefix = "/static/"
	// debugAliasPrefix is a short alias for /static/, honored only in debug
	// mode.
	debugAliasPrefix = "/_/"
)

// Dispatcher is the per-connection orchestrator: it parses the request,
// drives the concurrency gate, the session manager and the CSRF tokenizer,
// hands the request to the routing collaborator, applies cache negotiation
// and writes the final response. It implements http.Handler; the standard
// library runs one goroutine per accepted connection, matching the
// one-worker-per-connection scheduling model.
type Dispatcher struct {
	ident      *identity.Identity
	cfg        *AppConfig
	router     Router
	renderer   Renderer
	gate       *gate.Gate
	sessions   *session.Manager[*AppConfig]
	csrf       *csrf.Tokenizer
	negotiator *cache.Negotiator
	assets     *static.Server
	log        *slog.Logger
	metrics    *requestMetrics
	metricsReg prometheus.Registerer
	debug      map[string]bool
	maxForm    int64
}

// New creates a Dispatcher wired to the given identity, shared configuration
// and collaborators. Subsystems not supplied via options get sensible
// defaults derived from the identity.
func New(ident *identity.Identity, cfg *AppConfig, router Router, renderer Renderer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ident:      ident,
		cfg:        cfg,
		router:     router,
		renderer:   renderer,
		gate:       gate.New(),
		csrf:       csrf.New(ident.Secret()),
		negotiator: cache.New(ident.Secret()),
		assets:     static.New("./static"),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		debug:      make(map[string]bool),
		maxForm:    DefaultMaxFormBytes,
	}
	d.sessions = session.NewManager(ident, cfg)
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With(logger.Component("httpd"))
	if d.metricsReg != nil {
		d.metrics = newRequestMetrics(d.metricsReg, d.gate)
	}
	return d
}

// Gate exposes the concurrency gate so the host application can quiesce the
// server for maintenance operations.
func (d *Dispatcher) Gate() *gate.Gate {
	return d.gate
}

// Sessions exposes the session manager.
func (d *Dispatcher) Sessions() *session.Manager[*AppConfig] {
	return d.sessions
}

// debugging reports whether the named debug facility is enabled.
func (d *Dispatcher) debugging(facility string) bool {
	return d.debug[facility]
}

// ServeHTTP dispatches by method. HEAD is GET with a suppressed body; PUT and
// UPDATE are treated identically to POST for body parsing.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.handle(w, r, bodyParams{}, false)
	case http.MethodHead:
		d.handle(w, r, bodyParams{}, true)
	case http.MethodPost, http.MethodPut, "UPDATE":
		d.handleMutating(w, r)
	default:
		d.sendFull(w, []byte("Unsupported method"), http.StatusNotImplemented,
			"text/plain", nil, "", false, "")
		d.record(http.StatusNotImplemented)
	}
}

// bodyParams carries the parsed body of a mutating request.
type bodyParams struct {
	post      url.Values
	multipart *multipart.Form
}

// handleMutating parses the request body before admission to routing. The
// content type must be either URL-encoded form data (size-capped) or
// multipart form data; anything else fails the request with a descriptive
// message and no routing is attempted.
func (d *Dispatcher) handleMutating(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, rpcPrefix) {
		d.sendError(w, nil, ErrRPCDisabled, "")
		return
	}

	body, err := d.parseBody(r)
	if err != nil {
		mimetype, page := d.renderer.RenderError("Internal Error",
			fmt.Sprintf("Request body rejected: %v", err))
		d.sendFull(w, page, http.StatusInternalServerError, mimetype, nil, "", false, "")
		d.record(http.StatusInternalServerError)
		return
	}
	d.handle(w, r, body, false)
}

// parseBody reads a mutating request's body parameters.
func (d *Dispatcher) parseBody(r *http.Request) (bodyParams, error) {
	const urlencoded = "application/x-www-form-urlencoded"

	ctype := r.Header.Get("Content-Type")
	if ctype == "" {
		ctype = urlencoded
	}
	mediatype, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		return bodyParams{}, errors.Join(ErrUnknownContentType, err)
	}

	switch mediatype {
	case urlencoded:
		if r.ContentLength > d.maxForm {
			return bodyParams{}, ErrBodyTooLarge
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, d.maxForm+1))
		if err != nil {
			return bodyParams{}, err
		}
		if int64(len(raw)) > d.maxForm {
			return bodyParams{}, ErrBodyTooLarge
		}
		post, err := url.ParseQuery(string(raw))
		if err != nil {
			return bodyParams{}, err
		}
		return bodyParams{post: post}, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(d.maxForm); err != nil {
			return bodyParams{}, err
		}
		return bodyParams{post: r.PostForm, multipart: r.MultipartForm}, nil

	default:
		return bodyParams{}, fmt.Errorf("%w: %s", ErrUnknownContentType, mediatype)
	}
}

// handle runs the request state machine:
// Received -> Admitted -> SessionResolved -> {StaticServed | Routed} ->
// {CacheShortCircuited | Executed} -> ResponseSent.
func (d *Dispatcher) handle(w http.ResponseWriter, r *http.Request, body bodyParams, suppressBody bool) {
	d.gate.Enter()
	defer d.gate.Exit()

	log := d.log.With(logger.RequestID(uuid.NewString()))
	path := r.URL.Path

	// Static things: the favicon aliases into the theme, the short debug
	// alias is stripped only in debug mode, and /static/ short-circuits
	// before any session or routing work.
	if path == "/favicon.ico" {
		path = "/static/favicon.ico"
	}
	if d.debugging("http") && strings.HasPrefix(path, debugAliasPrefix) {
		path = strings.TrimPrefix(path, "/_")
	}
	if strings.HasPrefix(path, staticPrefix) {
		code := d.assets.Serve(w, r, strings.TrimPrefix(path, staticPrefix), suppressBody)
		d.record(code)
		return
	}
	if strings.HasPrefix(path, rpcPrefix) {
		d.sendError(w, log, ErrRPCDisabled, "")
		return
	}

	// HTTP is stateless: every request gets a fresh ephemeral session.
	sid := d.sessions.ResolveOrMint(r)
	sess := d.sessions.NewEphemeral(sid)
	d.populateVars(sess, r)

	if d.debugging("http") {
		log.Debug("request",
			logger.Method(r.Method), logger.Path(path), logger.Host(r.Host),
			slog.Any("query", r.URL.Query()), slog.Any("post", body.post))
	}

	ctx := r.Context()
	commands, redirectURL, err := d.route(ctx, r, path, body, sess)
	if err != nil {
		d.sendError(w, log, err, sid)
		return
	}
	if redirectURL != "" {
		d.sendRedirect(w, redirectURL)
		d.record(http.StatusFound)
		return
	}

	// Cache negotiation is skipped entirely in debug mode to simplify
	// debugging of dynamic output.
	var headers [][2]string
	cachectrl := ""
	if !d.debugging("http") {
		decision := d.negotiator.Evaluate(contributors(commands), r.Header.Get("If-None-Match"))
		if decision.NotModified {
			d.sendFull(w, nil, http.StatusNotModified, "text/html", nil, "", true, sid)
			d.record(http.StatusNotModified)
			return
		}
		if decision.ETag != "" {
			headers = append(headers, [2]string{"ETag", decision.ETag})
		}
		cachectrl = decision.CacheControl
	}

	result, err := d.execute(ctx, commands)
	switch {
	case err != nil:
		d.sendError(w, log, err, sid)
		return
	case result.Verdict == Redirect:
		d.sendRedirect(w, result.Location)
		d.record(http.StatusFound)
		return
	case result.Verdict == Suppress:
		// The command wants no body sent at all; finish without writing.
		return
	}

	mimetype, content, err := d.renderer.RenderResponse(sess, result)
	if err != nil {
		d.sendError(w, log, err, sid)
		return
	}
	d.sendFull(w, content, http.StatusOK, mimetype, headers, cachectrl, suppressBody, sid)
	d.record(http.StatusOK)
}

// route maps the request to commands. When no route matches a GET without a
// trailing slash outside debug mode, routing is retried with a slash
// appended; on success the caller issues a redirect to the corrected URL
// instead of executing anything.
func (d *Dispatcher) route(ctx context.Context, r *http.Request, path string, body bodyParams, sess *session.Session[*AppConfig]) ([]Command, string, error) {
	req := RouteRequest{
		Method:  r.Method,
		Path:    path,
		Query:   r.URL.Query(),
		Post:    body.post,
		Session: sess,
	}
	req.Multipart = body.multipart

	commands, err := d.router.Map(ctx, req)
	if err == nil {
		return commands, "", nil
	}

	if errors.Is(err, ErrUsage) && r.Method == http.MethodGet &&
		!strings.HasSuffix(path, "/") && !d.anyDebug() {
		req.Path = path + "/"
		if _, retryErr := d.router.Map(ctx, req); retryErr == nil {
			u := (&url.URL{Path: path + "/", RawQuery: r.URL.RawQuery}).String()
			return nil, u, nil
		}
	}
	return nil, "", err
}

// execute runs the commands in order; the last result drives rendering.
// Commands flagged as hanging activities are exempted from the in-flight
// counter for the duration of the actual work.
func (d *Dispatcher) execute(ctx context.Context, commands []Command) (Result, error) {
	hanging := false
	for _, c := range commands {
		if c.IsHangingActivity() {
			hanging = true
			break
		}
	}
	if hanging {
		d.gate.BeginHanging()
		defer d.gate.EndHanging()
	}

	var last Result
	for _, c := range commands {
		result, err := c.Run(ctx)
		if err != nil {
			return Result{}, err
		}
		if result.Verdict != Continue {
			return result, nil
		}
		last = result
	}
	return last, nil
}

// populateVars fills the per-request template variables.
func (d *Dispatcher) populateVars(sess *session.Session[*AppConfig], r *http.Request) {
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	hostname := host
	if i := strings.LastIndex(hostname, ":"); i >= 0 {
		hostname = hostname[:i]
	}

	sess.Vars["csrf"] = d.csrf.Generate()
	sess.Vars["http_host"] = host
	sess.Vars["http_hostname"] = hostname
	sess.Vars["http_method"] = r.Method
	sess.Vars["http_session"] = sess.ID
	sess.Vars["message_count"] = d.cfg.messages()
	sess.Vars["name"] = d.cfg.displayName()
	sess.Vars["title"] = d.cfg.title()
	sess.Vars["url_protocol"] = proto
}

// anyDebug reports whether any debug facility is enabled.
func (d *Dispatcher) anyDebug() bool {
	return len(d.debug) > 0
}

// contributors adapts the command list to the cache negotiation contract.
func contributors(commands []Command) []cache.Contributor {
	cs := make([]cache.Contributor, len(commands))
	for i, c := range commands {
		cs[i] = c
	}
	return cs
}

// sendError maps an error onto the response taxonomy and writes it. The
// session cookie is refreshed on error responses too, once a session id has
// been resolved for the request.
func (d *Dispatcher) sendError(w http.ResponseWriter, log *slog.Logger, err error, sessionID string) {
	var code int
	var body string
	switch {
	case errors.Is(err, ErrAccessDenied):
		code, body = http.StatusForbidden, "Access Denied"
	case errors.Is(err, ErrAuthRequired):
		code, body = http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, fs.ErrNotExist):
		code, body = http.StatusNotFound, "Not found"
	default:
		code = http.StatusInternalServerError
		if d.anyDebug() {
			// Local-development trust decision: detailed diagnostics leak
			// nothing the desktop user cannot already see.
			body = err.Error()
		} else {
			body = "Internal error"
		}
	}
	if log != nil {
		log.Debug("request failed", logger.Error(err), logger.Status(code))
	}
	d.sendFull(w, []byte(body), code, "text/plain", nil, "", false, sessionID)
	d.record(code)
}
