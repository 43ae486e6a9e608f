package static

import "errors"

var (
	// ErrAccessDenied is returned for traversal attempts and for files the
	// process is not permitted to read.
	ErrAccessDenied = errors.New("static: access denied")

	// ErrNotFound is returned when the logical path resolves to no file.
	ErrNotFound = errors.New("static: file not found")

	// ErrInternal is returned for any other resolution failure.
	ErrInternal = errors.New("static: internal error")
)
