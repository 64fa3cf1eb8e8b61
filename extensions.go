package mediabox

import "strings"

// DefaultPublicURLBase is the canonical public download form for Drive objects.
const DefaultPublicURLBase = "https://drive.google.com/uc?id="

// PublicURLer is implemented by clients whose backend has its own public
// URL form. Use type assertion to check: if pu, ok := client.(mediabox.PublicURLer); ok { ... }
type PublicURLer interface {
	PublicURL(id string) string
}

// Closer is implemented by clients that hold resources (connections,
// token stores) which must be released when the adapter is closed.
type Closer interface {
	Close() error
}

func defaultPublicURL(id string) string {
	return DefaultPublicURLBase + id
}

// looksLikeURL reports whether p is already an absolute http(s) URL.
func looksLikeURL(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
