package idcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/afero"

	"github.com/nuln/mediabox/internal/hashpath"
)

// File is a Store that keeps one JSON document per key on an afero.Fs, so
// several processes sharing a directory share the cache. Each Put replaces
// its document with a rename, which keeps per-key writes atomic.
type File struct {
	fs    afero.Fs
	clock Clock
}

// NewFile creates a File store on fs. clock may be nil.
// Use afero.NewMemMapFs() for tests.
func NewFile(fs afero.Fs, clock Clock) *File {
	return &File{fs: fs, clock: clock}
}

// OpenDir creates a File store rooted at dir on the local filesystem.
func OpenDir(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("idcache: directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return NewFile(afero.NewBasePathFs(afero.NewOsFs(), dir), nil), nil
}

func (f *File) entryPath(key string) string {
	return hashpath.Key(KeyPrefix+key, ".json")
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	p := f.entryPath(key)
	data, err := afero.ReadFile(f.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("idcache: read %q: %w", key, err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false, fmt.Errorf("idcache: decode %q: %w", key, err)
	}
	if e.Key != key || e.ID == "" {
		return "", false, nil
	}
	if e.Expired(f.clock.now()) {
		_ = f.fs.Remove(p)
		return "", false, nil
	}
	return e.ID, true, nil
}

func (f *File) Put(ctx context.Context, key, id string, ttl time.Duration) error {
	data, err := json.Marshal(Entry{
		Key:       key,
		ID:        id,
		ExpiresAt: f.clock.now().Add(normalizeTTL(ttl)),
	})
	if err != nil {
		return err
	}

	p := f.entryPath(key)
	dir := path.Dir(p)
	if err := f.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("idcache: put %q: %w", key, err)
	}

	tmp, err := afero.TempFile(f.fs, dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("idcache: put %q: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("idcache: put %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("idcache: put %q: %w", key, err)
	}
	if err := f.fs.Rename(tmpName, p); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("idcache: put %q: %w", key, err)
	}
	return nil
}

// Forget removes key. The Adapter never calls it.
func (f *File) Forget(ctx context.Context, key string) error {
	err := f.fs.Remove(f.entryPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var _ Store = (*File)(nil)
