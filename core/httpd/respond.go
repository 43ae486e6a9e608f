package httpd

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mailhaven/webserve/core/logger"
)

// sendStandardHeaders sets the common response headers: cache policy,
// content type (with charset appended for bare text types), any custom
// header pairs, and the session cookie refresh when a session id is present.
func (d *Dispatcher) sendStandardHeaders(w http.ResponseWriter, headers [][2]string, cachectrl, mimetype, sessionID string) {
	if cachectrl == "" {
		cachectrl = "private"
	}
	if strings.HasPrefix(mimetype, "text/") && !strings.Contains(mimetype, ";") {
		mimetype += "; charset=utf-8"
	}

	h := w.Header()
	h.Set("Cache-Control", cachectrl)
	h.Set("Content-Type", mimetype)
	for _, kv := range headers {
		h.Add(kv[0], kv[1])
	}
	if sessionID != "" {
		d.sessions.IssueCookie(w, sessionID)
	}
}

// sendFull writes a complete response: status, headers and body. A 401
// status carries a WWW-Authenticate challenge whose realm varies hourly.
// When suppressBody is set the body (and its Content-Length) is omitted.
func (d *Dispatcher) sendFull(w http.ResponseWriter, body []byte, code int, mimetype string, headers [][2]string, cachectrl string, suppressBody bool, sessionID string) {
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate",
			fmt.Sprintf("Basic realm=MP%d", time.Now().Unix()/3600))
	}
	if cachectrl == "" {
		cachectrl = "no-cache"
	}
	if !suppressBody {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	}
	d.sendStandardHeaders(w, headers, cachectrl, mimetype, sessionID)

	// The httpdata facility dumps the wire-level response for protocol
	// debugging.
	if d.debugging("httpdata") {
		d.log.Debug("response data",
			logger.Status(code),
			slog.String("content_type", mimetype),
			slog.String("cache_control", cachectrl),
			slog.String("body", string(body)))
	}

	w.WriteHeader(code)
	if !suppressBody {
		_, _ = w.Write(body)
	}
}

// sendRedirect writes a 302 with an HTML body containing a clickable link,
// for clients that do not follow Location automatically.
func (d *Dispatcher) sendRedirect(w http.ResponseWriter, destination string) {
	w.Header().Set("Location", destination)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusFound)
	fmt.Fprintf(w, "<h1><a href=\"%s\">Please look here!</a></h1>\n", destination)
}
