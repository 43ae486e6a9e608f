package static

import (
	"mime"
	"path/filepath"
	"strings"
)

// mimetypeMap overrides whatever the platform MIME database thinks for
// extensions we always want to recognize.
var mimetypeMap = map[string]string{
	// Plain text and source files
	"c": "text/plain", "cfg": "text/plain", "conf": "text/plain",
	"cpp": "text/plain", "csv": "text/plain", "h": "text/plain",
	"hpp": "text/plain", "log": "text/plain", "md": "text/plain",
	"me": "text/plain", "py": "text/plain", "rb": "text/plain",
	"rc": "text/plain", "txt": "text/plain",

	// Fonts
	"pfa": "application/x-font", "pfb": "application/x-font",
	"gsf": "application/x-font", "pcf": "application/x-font",
	"eot":  "application/vnd.ms-fontobject",
	"otf":  "font/otf",
	"ttf":  "font/ttf",
	"woff": "application/font-woff",

	// Web assets
	"css":  "text/css",
	"gif":  "image/gif",
	"html": "text/html",
	"htm":  "text/html",
	"ico":  "image/x-icon",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"js":   "text/javascript",
	"json": "application/json",
	"png":  "image/png",
	"rss":  "application/rss+xml",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	"svgz": "image/svg+xml",
}

// GuessMimetype determines the content type of a file by its extension,
// preferring the built-in table, then the platform MIME database, and
// finally defaulting to an opaque binary type.
func GuessMimetype(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(path)), "."))
	if mt, ok := mimetypeMap[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension("." + ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
