// Package logger provides nil-safe slog attribute helpers used across the
// server core. Helpers return an empty Attr for nil or zero inputs so call
// sites never need explicit guards:
//
//	log.Info("request finished",
//		logger.Method(r.Method),
//		logger.Status(code),
//		logger.Error(err), // no-op when err is nil
//	)
package logger
