// Package local provides an ID-addressed object store on a local directory.
// It behaves like a flat remote backend: every object gets a random ID,
// names are not unique, and objects start private until GrantPublicRead.
// It is useful for development and for running the adapter without network
// access.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/nuln/mediabox"
	"github.com/nuln/mediabox/internal/hashpath"
)

// Auto-register local storage driver.
func init() {
	mediabox.Register("local", func(cfg *mediabox.Config) (mediabox.RemoteClient, error) {
		dir := cfg.Option("dir")
		if dir == "" {
			return nil, fmt.Errorf("mediabox/local: option %q is required", "dir")
		}
		c, err := New(dir)
		if err != nil {
			return nil, err
		}
		c.publicBase = cfg.Option("publicBaseUrl")
		return c, nil
	})
}

const (
	objectsDir = "objects"
	metaDir    = "meta"
)

// meta is the JSON sidecar stored next to each object.
type meta struct {
	Name     string    `json:"name"`
	Parent   string    `json:"parent,omitempty"`
	MimeType string    `json:"mimeType"`
	Public   bool      `json:"public"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
	Seq      int64     `json:"seq"`
}

// Client implements mediabox.RemoteClient on an afero filesystem.
type Client struct {
	fs         afero.Fs
	root       string
	now        func() time.Time
	publicBase string

	mu      sync.Mutex
	lastSeq int64
}

// New creates a Client storing objects under root.
func New(root string) (*Client, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absRoot, 0750); err != nil {
		return nil, err
	}
	c := NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), absRoot))
	c.root = absRoot
	return c, nil
}

// NewWithFs creates a Client backed by a custom afero.Fs.
// This is useful for testing with afero.MemMapFs.
func NewWithFs(fs afero.Fs) *Client {
	return &Client{fs: fs, now: time.Now}
}

// SetPublicBase sets the URL prefix PublicURL puts in front of object IDs.
func (c *Client) SetPublicBase(base string) {
	c.publicBase = base
}

func objectPath(id string) string {
	return filepath.Join(objectsDir, hashpath.Of(id))
}

func metaPath(id string) string {
	return filepath.Join(metaDir, hashpath.WithExt(id, ".json"))
}

// checkID rejects anything that is not an ID this driver issued, so that
// caller-supplied IDs can never escape the store directory.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("mediabox/local: object %q: %w", id, mediabox.ErrNotFound)
	}
	return nil
}

// nextSeq returns a creation sequence number that increases within the
// process and roughly follows wall-clock order across processes.
func (c *Client) nextSeq() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.now().UnixNano()
	if seq <= c.lastSeq {
		seq = c.lastSeq + 1
	}
	c.lastSeq = seq
	return seq
}

func (c *Client) readMeta(id string) (*meta, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(c.fs, metaPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("mediabox/local: object %q: %w", id, mediabox.ErrNotFound)
		}
		return nil, err
	}
	m := &meta{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("mediabox/local: decode metadata of %q: %w", id, err)
	}
	return m, nil
}

func (c *Client) writeMeta(id string, m *meta) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	p := metaPath(id)
	if err := c.fs.MkdirAll(filepath.Dir(p), 0750); err != nil {
		return err
	}
	return afero.WriteFile(c.fs, p, data, 0640)
}

func (c *Client) CreateObject(ctx context.Context, name, parentID string, content io.Reader, mimeType string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("mediabox/local: %w: empty object name", mediabox.ErrInvalid)
	}
	id := uuid.NewString()

	p := objectPath(id)
	if err := c.fs.MkdirAll(filepath.Dir(p), 0750); err != nil {
		return "", err
	}
	f, err := c.fs.Create(p)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = c.fs.Remove(p)
		return "", fmt.Errorf("mediabox/local: write %q: %w", name, err)
	}

	m := &meta{
		Name:     name,
		Parent:   parentID,
		MimeType: mimeType,
		Size:     n,
		ModTime:  c.now().UTC(),
		Seq:      c.nextSeq(),
	}
	if err := c.writeMeta(id, m); err != nil {
		_ = c.fs.Remove(p)
		return "", fmt.Errorf("mediabox/local: write metadata of %q: %w", name, err)
	}
	return id, nil
}

func (c *Client) GetObject(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	f, err := c.fs.Open(objectPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("mediabox/local: object %q: %w", id, mediabox.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// StatObject returns every field regardless of the fields requested; the
// sidecar is read whole anyway.
func (c *Client) StatObject(ctx context.Context, id string, fields ...string) (*mediabox.RemoteObject, error) {
	m, err := c.readMeta(id)
	if err != nil {
		return nil, err
	}
	return &mediabox.RemoteObject{
		ID:       id,
		Name:     m.Name,
		Size:     m.Size,
		ModTime:  m.ModTime,
		MimeType: m.MimeType,
	}, nil
}

func (c *Client) DeleteObject(ctx context.Context, id string) error {
	if _, err := c.readMeta(id); err != nil {
		return err
	}
	if err := c.fs.Remove(objectPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return c.fs.Remove(metaPath(id))
}

// ListObjects scans every sidecar. Results are in creation order.
func (c *Client) ListObjects(ctx context.Context, name, parentID string) ([]mediabox.RemoteObject, error) {
	type hit struct {
		obj mediabox.RemoteObject
		seq int64
	}
	var hits []hit

	err := afero.Walk(c.fs, metaDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}
		id := strings.TrimSuffix(filepath.Base(p), ".json")
		m, err := c.readMeta(id)
		if err != nil {
			// Removed concurrently or not one of ours.
			return nil
		}
		if m.Name != name || (parentID != "" && m.Parent != parentID) {
			return nil
		}
		hits = append(hits, hit{
			obj: mediabox.RemoteObject{ID: id, Name: m.Name, Size: m.Size, ModTime: m.ModTime, MimeType: m.MimeType},
			seq: m.Seq,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mediabox/local: list %q: %w", name, err)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })
	out := make([]mediabox.RemoteObject, len(hits))
	for i, h := range hits {
		out[i] = h.obj
	}
	return out, nil
}

func (c *Client) GrantPublicRead(ctx context.Context, id string) error {
	m, err := c.readMeta(id)
	if err != nil {
		return err
	}
	if m.Public {
		return nil
	}
	m.Public = true
	return c.writeMeta(id, m)
}

// IsPublic reports whether id has been granted public read.
func (c *Client) IsPublic(ctx context.Context, id string) (bool, error) {
	m, err := c.readMeta(id)
	if err != nil {
		return false, err
	}
	return m.Public, nil
}

// PublicURL joins the configured base with id. Without a base it is the
// file URL of the object's content under the store root.
func (c *Client) PublicURL(id string) string {
	if c.publicBase != "" {
		return strings.TrimRight(c.publicBase, "/") + "/" + id
	}
	root := c.root
	if root == "" {
		root = "/"
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(root, objectPath(id)))}
	return u.String()
}

// Compile-time interface checks.
var (
	_ mediabox.RemoteClient = (*Client)(nil)
	_ mediabox.PublicURLer  = (*Client)(nil)
)
