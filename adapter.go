package mediabox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/nuln/mediabox/idcache"
)

// Options configures an Adapter.
type Options struct {
	// FolderID scopes name queries and is the parent of new objects.
	// Empty means the whole backend.
	FolderID string

	// PathPrefix is prepended to every logical path before it is used as a
	// cache key.
	PathPrefix string

	// CacheTTL bounds how long a path→ID mapping is trusted.
	// Defaults to idcache.DefaultTTL.
	CacheTTL time.Duration

	// Cache holds path→ID mappings. Defaults to a fresh idcache.Memory.
	Cache idcache.Store

	// TieBreak chooses among objects sharing a name. Defaults to FirstMatch.
	TieBreak TieBreak

	// PublicURL builds the public URL of an object ID. Defaults to the
	// client's PublicURLer, or the Drive download form.
	PublicURL func(id string) string

	Logger  *zap.Logger
	Metrics *Metrics
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = idcache.DefaultTTL
	}
	if o.Cache == nil {
		o.Cache = idcache.NewMemory(nil)
	}
	if o.TieBreak == nil {
		o.TieBreak = FirstMatch
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Adapter implements Filesystem on top of a RemoteClient.
//
// Every object written through the Adapter is made publicly readable; a
// write whose permission grant fails is reported as failed even though the
// object was created. Only the writer's own cache guarantees
// read-after-write: the backend's name queries are eventually consistent,
// so another process may not find a just-written object until the backend
// catches up. Concurrent operations on the same path are not ordered.
type Adapter struct {
	client    RemoteClient
	resolver  *Resolver
	folderID  string
	publicURL func(id string) string
	logger    *zap.Logger
	metrics   *Metrics
}

// New creates an Adapter over client.
func New(client RemoteClient, opts Options) *Adapter {
	opts = opts.withDefaults()

	publicURL := opts.PublicURL
	if publicURL == nil {
		if pu, ok := client.(PublicURLer); ok {
			publicURL = pu.PublicURL
		} else {
			publicURL = defaultPublicURL
		}
	}

	return &Adapter{
		client:    client,
		resolver:  NewResolver(client, opts),
		folderID:  opts.FolderID,
		publicURL: publicURL,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Resolve returns the remote identifier of path.
func (a *Adapter) Resolve(ctx context.Context, path string) (string, error) {
	id, err := a.resolver.Resolve(ctx, path)
	if err != nil {
		return "", resolutionFailed(path, causeOf(err))
	}
	return id, nil
}

// ResolveFresh is like Resolve but ignores cached mappings.
func (a *Adapter) ResolveFresh(ctx context.Context, path string) (string, error) {
	id, err := a.resolver.ResolveFresh(ctx, path)
	if err != nil {
		return "", resolutionFailed(path, causeOf(err))
	}
	return id, nil
}

// FileExists reports whether path resolves. Backend failures read as false.
func (a *Adapter) FileExists(ctx context.Context, path string) bool {
	_, err := a.resolver.Resolve(ctx, path)
	return err == nil
}

func (a *Adapter) Write(ctx context.Context, path string, contents []byte, opts ...WriteOption) error {
	return a.WriteStream(ctx, path, bytes.NewReader(contents), opts...)
}

// WriteStream creates a new object for path, makes it public and records
// its identifier. Writing an existing path creates another object and
// repoints the cache at it; the older object is left in place.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, opts ...WriteOption) (err error) {
	defer func(start time.Time) { a.metrics.observe("write", start, err) }(time.Now())

	name := Basename(path)
	if name == "" {
		return writeFailed(path, errEmptyName)
	}

	cfg := writeConfig{mimeType: MimeTypeOf(name)}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := a.createPublic(ctx, name, r, cfg.mimeType)
	if res.err != nil {
		if res.id != "" {
			a.metrics.orphaned()
			a.logger.Warn("object created but left private",
				zap.String("path", path),
				zap.String("id", res.id),
				zap.Error(res.err))
		}
		return writeFailed(path, res.err)
	}

	if err := a.resolver.remember(ctx, path, res.id); err != nil {
		return writeFailed(path, fmt.Errorf("record identifier %s: %w", res.id, err))
	}

	a.logger.Debug("wrote object", zap.String("path", path), zap.String("id", res.id))
	return nil
}

// createResult is the combined outcome of creating an object and granting
// public read on it. id is set whenever the object exists remotely, even
// when err reports that the grant failed.
type createResult struct {
	id  string
	err error
}

func (a *Adapter) createPublic(ctx context.Context, name string, content io.Reader, mimeType string) createResult {
	id, err := a.client.CreateObject(ctx, name, a.folderID, content, mimeType)
	if err != nil {
		return createResult{err: fmt.Errorf("create object: %w", err)}
	}
	if err := a.client.GrantPublicRead(ctx, id); err != nil {
		return createResult{id: id, err: fmt.Errorf("grant public read on %s: %w", id, err)}
	}
	return createResult{id: id}
}

func (a *Adapter) Read(ctx context.Context, path string) (data []byte, err error) {
	defer func(start time.Time) { a.metrics.observe("read", start, err) }(time.Now())

	rc, err := a.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err = io.ReadAll(rc)
	if err != nil {
		return nil, readFailed(path, err)
	}
	return data, nil
}

func (a *Adapter) ReadStream(ctx context.Context, path string) (rc io.ReadCloser, err error) {
	defer func(start time.Time) { a.metrics.observe("read", start, err) }(time.Now())
	return a.open(ctx, path)
}

func (a *Adapter) open(ctx context.Context, path string) (io.ReadCloser, error) {
	id, err := a.resolver.Resolve(ctx, path)
	if err != nil {
		return nil, readFailed(path, causeOf(err))
	}
	rc, err := a.client.GetObject(ctx, id)
	if err != nil {
		return nil, readFailed(path, err)
	}
	return rc, nil
}

// Delete removes the object path resolves to. A path that does not resolve,
// or whose object the backend no longer has, is already gone, so it is not
// an error. The cached mapping is kept.
func (a *Adapter) Delete(ctx context.Context, path string) (err error) {
	defer func(start time.Time) { a.metrics.observe("delete", start, err) }(time.Now())

	id, err := a.resolver.Resolve(ctx, path)
	if err != nil {
		a.logger.Debug("nothing to delete", zap.String("path", path), zap.Error(err))
		return nil
	}
	if err := a.client.DeleteObject(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			// A stale cache entry pointed at an object that is already gone.
			return nil
		}
		return deleteFailed(path, err)
	}
	return nil
}

// DirectoryExists is always true: the backend has no directories.
func (a *Adapter) DirectoryExists(ctx context.Context, path string) bool {
	return true
}

func (a *Adapter) CreateDirectory(ctx context.Context, path string) error {
	return nil
}

func (a *Adapter) DeleteDirectory(ctx context.Context, path string) error {
	return nil
}

// SetVisibility is a no-op. Objects are public from the moment they are
// written and visibility cannot be revoked through the Adapter.
func (a *Adapter) SetVisibility(ctx context.Context, path string, v Visibility) error {
	return nil
}

func (a *Adapter) Visibility(ctx context.Context, path string) Visibility {
	return VisibilityPublic
}

func (a *Adapter) MimeType(path string) string {
	return MimeTypeOf(path)
}

// LastModified returns the remote modification time, or false when the
// path does not resolve or the backend cannot say.
func (a *Adapter) LastModified(ctx context.Context, path string) (time.Time, bool) {
	obj, ok := a.stat(ctx, path, FieldModTime)
	if !ok || obj.ModTime.IsZero() {
		return time.Time{}, false
	}
	return obj.ModTime, true
}

// FileSize returns the remote size in bytes, or false on any failure.
func (a *Adapter) FileSize(ctx context.Context, path string) (int64, bool) {
	obj, ok := a.stat(ctx, path, FieldSize)
	if !ok {
		return 0, false
	}
	return obj.Size, true
}

func (a *Adapter) stat(ctx context.Context, path string, fields ...string) (*RemoteObject, bool) {
	id, err := a.resolver.Resolve(ctx, path)
	if err != nil {
		return nil, false
	}
	obj, err := a.client.StatObject(ctx, id, fields...)
	if err != nil || obj == nil {
		a.logger.Debug("metadata unavailable", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return obj, true
}

// ListContents is not implemented and always returns an empty listing.
func (a *Adapter) ListContents(ctx context.Context, path string, deep bool) ([]*Attributes, error) {
	return []*Attributes{}, nil
}

// Move is not implemented and does nothing.
func (a *Adapter) Move(ctx context.Context, src, dst string) error {
	return nil
}

// Copy is not implemented and does nothing.
func (a *Adapter) Copy(ctx context.Context, src, dst string) error {
	return nil
}

// PublicURL returns the public URL of path. It tries the cache alone, then
// a full resolution. When both fail, a path that already is an absolute
// URL is returned unchanged, and any other path's basename is taken to be
// an object ID, because some callers hold raw identifiers instead of paths.
func (a *Adapter) PublicURL(ctx context.Context, path string) string {
	if id, ok := a.resolver.Cached(ctx, path); ok {
		return a.publicURL(id)
	}
	if id, err := a.resolver.ResolveFresh(ctx, path); err == nil {
		return a.publicURL(id)
	}
	if looksLikeURL(path) {
		return path
	}
	return a.publicURL(Basename(path))
}

// Close releases the client's resources when it holds any.
func (a *Adapter) Close() error {
	if c, ok := a.client.(Closer); ok {
		return c.Close()
	}
	return nil
}

// causeOf strips a resolver PathError down to its backend cause so that
// callers see a single error kind.
func causeOf(err error) error {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

var _ Filesystem = (*Adapter)(nil)
