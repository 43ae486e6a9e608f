package main

import (
	"context"
	"fmt"
	"html"

	"github.com/mailhaven/webserve/core/httpd"
	"github.com/mailhaven/webserve/core/session"
)

// defaultRouter is the built-in routing table for the standalone binary.
// Embedding applications supply their own httpd.Router.
type defaultRouter struct{}

func (defaultRouter) Map(ctx context.Context, req httpd.RouteRequest) ([]httpd.Command, error) {
	if req.Path == "/" {
		return []httpd.Command{homeCommand{}}, nil
	}
	return nil, httpd.ErrUsage
}

// homeCommand renders the landing page. Its fingerprint only varies with the
// profile, so repeat visits mostly resolve as 304s.
type homeCommand struct{}

func (homeCommand) Run(ctx context.Context) (httpd.Result, error) {
	return httpd.Result{Verdict: httpd.Continue}, nil
}

func (homeCommand) MaxAge() int             { return 10 }
func (homeCommand) ETagData() []string      { return []string{"home"} }
func (homeCommand) IsHangingActivity() bool { return false }

// defaultRenderer produces minimal HTML from the session's template
// variables. Embedding applications supply their own httpd.Renderer.
type defaultRenderer struct{}

func (defaultRenderer) RenderResponse(sess *session.Session[*httpd.AppConfig], result httpd.Result) (string, []byte, error) {
	body := fmt.Sprintf(
		"<!DOCTYPE html>\n<html><head><title>%s</title></head>\n"+
			"<body><h1>%s</h1><p>Hello, %s.</p>\n"+
			"<input type=\"hidden\" name=\"csrf\" value=\"%s\">\n"+
			"</body></html>\n",
		html.EscapeString(fmt.Sprint(sess.Vars["title"])),
		html.EscapeString(fmt.Sprint(sess.Vars["title"])),
		html.EscapeString(fmt.Sprint(sess.Vars["name"])),
		html.EscapeString(fmt.Sprint(sess.Vars["csrf"])),
	)
	return "text/html", []byte(body), nil
}

func (defaultRenderer) RenderError(title, message string) (string, []byte) {
	body := fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>%s</title></head>\n<body><h1>%s</h1><p>%s</p></body></html>\n",
		html.EscapeString(title), html.EscapeString(title), html.EscapeString(message))
	return "text/html", []byte(body)
}
