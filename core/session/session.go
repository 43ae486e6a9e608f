package session

// Session is the ephemeral per-request session object. It holds the session
// identifier, a reference to shared application configuration, and the bag of
// template variables computed for this request. It is owned exclusively by
// the request that created it and discarded after the response is sent; HTTP
// is treated as stateless, so nothing here outlives the request/response
// cycle except the identifier itself.
type Session[Config any] struct {
	// ID is the unauthenticated session identifier resolved from the request
	// cookie or freshly minted. It identifies a browser session, not a user.
	ID string

	// Config references the shared application configuration. Sessions never
	// own or mutate it.
	Config Config

	// Vars holds template variables computed for this request: CSRF token,
	// host, method, session id, message counts, display name, protocol.
	Vars map[string]any
}
