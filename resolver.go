package mediabox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nuln/mediabox/idcache"
)

// errNoMatch is the cause reported when a name query returns nothing.
var errNoMatch = errors.New("no object with that name")

// errEmptyName is the cause reported for a path without a final segment.
var errEmptyName = errors.New("empty file name")

// TieBreak picks one object out of two or more that share a name.
// candidates is never empty and is in backend order.
type TieBreak func(candidates []RemoteObject) RemoteObject

// FirstMatch is the default TieBreak: the first object the backend lists
// wins. The backend does not enforce unique names, so when duplicates
// exist the winner is stable for a given listing order but is not
// necessarily the newest or the intended object.
func FirstMatch(candidates []RemoteObject) RemoteObject {
	return candidates[0]
}

// Resolver maps logical paths to remote object identifiers: the cache is
// consulted first, then a name query (scoped to the folder when one is
// configured) whose answer is written back to the cache. The path prefix
// only shapes cache keys; name queries use the basename of the path as
// given.
type Resolver struct {
	client   RemoteClient
	cache    idcache.Store
	prefixer Prefixer
	folderID string
	ttl      time.Duration
	tieBreak TieBreak
	logger   *zap.Logger
	metrics  *Metrics
}

// NewResolver creates a Resolver from the cache, folder and tie-break
// settings of opts.
func NewResolver(client RemoteClient, opts Options) *Resolver {
	opts = opts.withDefaults()
	return &Resolver{
		client:   client,
		cache:    opts.Cache,
		prefixer: NewPrefixer(opts.PathPrefix),
		folderID: opts.FolderID,
		ttl:      opts.CacheTTL,
		tieBreak: opts.TieBreak,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Resolve returns the identifier for path, or an error matching
// ErrResolutionFailed.
func (r *Resolver) Resolve(ctx context.Context, path string) (string, error) {
	if id, ok := r.Cached(ctx, path); ok {
		return id, nil
	}
	return r.ResolveFresh(ctx, path)
}

// ResolveFresh skips the cache lookup and always queries the backend.
// A successful answer still refreshes the cache.
func (r *Resolver) ResolveFresh(ctx context.Context, path string) (string, error) {
	name := Basename(path)
	if name == "" {
		return "", resolutionFailed(path, errEmptyName)
	}

	candidates, err := r.client.ListObjects(ctx, name, r.folderID)
	if err != nil {
		return "", resolutionFailed(path, err)
	}
	if len(candidates) == 0 {
		return "", resolutionFailed(path, errNoMatch)
	}

	chosen := r.tieBreak(candidates)
	if chosen.ID == "" {
		return "", resolutionFailed(path, fmt.Errorf("backend returned an object without an id"))
	}
	if len(candidates) > 1 {
		r.logger.Debug("name matched several objects",
			zap.String("path", path),
			zap.Int("candidates", len(candidates)),
			zap.String("chosen", chosen.ID))
	}

	if err := r.remember(ctx, path, chosen.ID); err != nil {
		r.logger.Warn("cache read-through failed", zap.String("path", path), zap.Error(err))
	}
	return chosen.ID, nil
}

// Cached returns the unexpired cache entry for path without querying the
// backend. Cache errors count as misses.
func (r *Resolver) Cached(ctx context.Context, path string) (string, bool) {
	if Basename(path) == "" {
		return "", false
	}
	id, ok, err := r.cache.Get(ctx, r.prefixer.PrefixPath(path))
	if err != nil {
		r.logger.Warn("cache lookup failed", zap.String("path", path), zap.Error(err))
		ok = false
	}
	r.metrics.cacheLookup(ok)
	if !ok {
		return "", false
	}
	r.logger.Debug("cache hit", zap.String("path", path), zap.String("id", id))
	return id, true
}

// remember records id under the prefixed cache key of path.
func (r *Resolver) remember(ctx context.Context, path, id string) error {
	return r.cache.Put(ctx, r.prefixer.PrefixPath(path), id, r.ttl)
}
