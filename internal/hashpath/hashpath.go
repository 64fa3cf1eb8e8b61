// Package hashpath fans flat keys out over a shallow directory tree so
// that no single directory of an object or cache store grows unbounded.
package hashpath

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
)

// Of generates a multi-level slash path from a hash string,
// distributing entries across 256^2 directories.
//
// Example: Of("abc123def456") → "ab/c1/abc123def456"
func Of(hash string) string {
	if len(hash) < 4 {
		return hash
	}
	return path.Join(hash[0:2], hash[2:4], hash)
}

// WithExt is like Of but appends ext to the final element.
//
// Example: WithExt("abc123def456", ".json") → "ab/c1/abc123def456.json"
func WithExt(hash, ext string) string {
	return Of(hash) + ext
}

// Key hashes an arbitrary string key with SHA-256 and lays the digest out
// with WithExt. Keys may contain slashes or any other character.
func Key(key, ext string) string {
	sum := sha256.Sum256([]byte(key))
	return WithExt(hex.EncodeToString(sum[:]), ext)
}
