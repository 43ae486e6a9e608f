package httpd

// AppConfig is the shared application configuration every ephemeral session
// references. The dispatcher reads it when populating template variables; it
// is never mutated during request handling.
type AppConfig struct {
	// Title is the application title exposed to templates.
	Title string

	// ProfileName is the display name of the active profile.
	ProfileName string

	// MessageCount reports the current message index size for templates.
	// May be nil when the host has no index yet.
	MessageCount func() int
}

// messages returns the current message count, zero when no index exists.
func (c *AppConfig) messages() int {
	if c == nil || c.MessageCount == nil {
		return 0
	}
	return c.MessageCount()
}

// displayName returns the profile name with a sane fallback.
func (c *AppConfig) displayName() string {
	if c == nil || c.ProfileName == "" {
		return "Anonymous"
	}
	return c.ProfileName
}

// title returns the application title with a sane fallback.
func (c *AppConfig) title() string {
	if c == nil || c.Title == "" {
		return "webserve"
	}
	return c.Title
}
