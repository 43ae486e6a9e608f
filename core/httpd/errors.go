package httpd

import "errors"

var (
	// ErrUsage is returned by routers when no route matches the request.
	ErrUsage = errors.New("httpd: no matching route")

	// ErrAccessDenied is returned by routers and commands on authorization
	// failure; it maps to a 403 response with a plain-text body.
	ErrAccessDenied = errors.New("httpd: access denied")

	// ErrAuthRequired maps to a 401 response with a WWW-Authenticate
	// challenge.
	ErrAuthRequired = errors.New("httpd: authentication required")

	// ErrBodyTooLarge rejects oversized URL-encoded request bodies before
	// any routing work.
	ErrBodyTooLarge = errors.New("httpd: request body too large")

	// ErrUnknownContentType rejects mutating requests whose content type is
	// neither URL-encoded form data nor multipart form data.
	ErrUnknownContentType = errors.New("httpd: unknown content type")

	// ErrRPCDisabled rejects the legacy RPC endpoint prefix, which is
	// present in the URL space but intentionally disabled.
	ErrRPCDisabled = errors.New("httpd: legacy RPC endpoint has been disabled")
)
