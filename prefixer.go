package mediabox

import (
	"path"
	"strings"
)

// Prefixer adds a constant root prefix to logical paths.
// Lookups and new object names use the basename of the unprefixed path,
// so the prefix never changes which object a path resolves to; it only
// namespaces cache keys.
type Prefixer struct {
	prefix string
}

// NewPrefixer returns a Prefixer for prefix. An empty prefix is the identity.
func NewPrefixer(prefix string) Prefixer {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return Prefixer{prefix: prefix}
}

// PrefixPath returns location with the prefix applied.
func (p Prefixer) PrefixPath(location string) string {
	return p.prefix + strings.TrimLeft(location, "/")
}

// Basename returns the final segment of a slash-separated path, ignoring
// trailing slashes. It returns "" for an empty or root-only path.
func Basename(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
