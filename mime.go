package mediabox

import (
	"path"
	"strings"
)

// DefaultMimeType is reported for extensions missing from the table.
const DefaultMimeType = "application/octet-stream"

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"html": "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"xml":  "application/xml",
	"zip":  "application/zip",
}

// MimeTypeOf infers a MIME type from the extension of p's basename.
// It is a pure table lookup and never touches a backend.
func MimeTypeOf(p string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(Basename(p)), "."))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return DefaultMimeType
}
