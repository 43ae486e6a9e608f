package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without
// explicit nil checks.

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Component tags log records with the emitting subsystem.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID tags log records with the per-request identifier.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Method creates an attribute for an HTTP method.
func Method(m string) slog.Attr {
	return slog.String("method", m)
}

// Path creates an attribute for a request path.
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Status creates an attribute for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Host creates an attribute for the request host.
func Host(h string) slog.Attr {
	return slog.String("host", h)
}
