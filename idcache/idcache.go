// Package idcache holds the time-bounded mapping from logical path to remote
// object identifier.
//
// The cache is an optimization, never a source of truth: a miss only costs a
// name query against the backend. Entries are overwritten unconditionally
// (last writer wins) and expire after their TTL. Nothing removes an entry
// when the object it points at is deleted, so a hit may name an object that
// no longer exists until the entry expires.
package idcache

import (
	"context"
	"time"
)

// DefaultTTL is how long a path→ID mapping is trusted.
const DefaultTTL = 30 * 24 * time.Hour

// KeyPrefix namespaces cache keys in shared stores.
const KeyPrefix = "gdrive_file_id:"

// Store is a keyed, expiring string store.
type Store interface {
	// Get returns the identifier stored for key. ok is false when there is
	// no entry or the entry has expired.
	Get(ctx context.Context, key string) (id string, ok bool, err error)

	// Put stores id for key until ttl has elapsed, replacing any entry.
	Put(ctx context.Context, key, id string, ttl time.Duration) error
}

// Clock returns the current time. A nil Clock means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Entry is one cached mapping.
type Entry struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether e is no longer authoritative at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
