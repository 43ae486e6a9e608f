// Package static serves theme files by logical name. Paths containing
// parent-directory traversal sequences are rejected before any filesystem
// access. MIME types come from a built-in extension table first, then the
// platform MIME database, defaulting to application/octet-stream.
//
// Static content is assumed effectively immutable within a running instance,
// so responses carry a long fixed max-age and no ETag.
package static
