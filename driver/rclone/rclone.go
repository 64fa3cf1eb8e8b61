// Package rclone stores objects on any rclone remote.
//
// Remotes are path-addressed, so each object lives in a directory of its
// own named by a random ID: <parent>/<uuid>/<name>. The object ID is
// "<parent>/<uuid>" (or just "<uuid>" with no parent), which keeps names
// non-unique exactly like the Drive backend.
package rclone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/fspath"
	"github.com/rclone/rclone/fs/operations"
	rcloneWalk "github.com/rclone/rclone/fs/walk"

	"github.com/nuln/mediabox"
)

// Auto-register rclone storage driver.
func init() {
	mediabox.Register("rclone", func(cfg *mediabox.Config) (mediabox.RemoteClient, error) {
		remote := cfg.Option("remote")
		if remote == "" {
			return nil, fmt.Errorf("mediabox/rclone: remote path is required (set Options[\"remote\"])")
		}
		c, err := New(remote)
		if err != nil {
			return nil, err
		}
		c.assumePublic = cfg.OptionBool("assumePublic")
		c.publicBase = cfg.Option("publicBaseUrl")
		if _, ok := c.remote.(fs.PublicLinker); !ok && c.assumePublic && c.publicBase == "" {
			return nil, fmt.Errorf("mediabox/rclone: remote %s cannot create public links; option %q is required with %q", c.remote.Name(), "publicBaseUrl", "assumePublic")
		}
		return c, nil
	})
}

// Client implements mediabox.RemoteClient using rclone's fs.Fs.
type Client struct {
	remote fs.Fs

	// assumePublic treats every object as publicly readable when the
	// remote cannot create public links itself, e.g. a bucket served
	// behind a CDN.
	assumePublic bool
	publicBase   string

	links sync.Map // id -> public link
}

// New creates a new rclone Client from a remote path (e.g., "gdrive:media").
func New(remotePath string) (*Client, error) {
	remote, err := fs.NewFs(context.Background(), remotePath)
	if err != nil {
		return nil, err
	}
	return NewWithFs(remote), nil
}

// NewWithFs creates a Client over an already configured remote.
func NewWithFs(remote fs.Fs) *Client {
	return &Client{remote: remote}
}

// SetAssumePublic makes GrantPublicRead succeed on remotes without public links.
func (c *Client) SetAssumePublic(v bool) {
	c.assumePublic = v
}

// SetPublicBase sets the URL prefix PublicURL puts in front of object IDs.
func (c *Client) SetPublicBase(base string) {
	c.publicBase = base
}

func validID(id string) bool {
	if id == "" || strings.Contains(id, "..") || path.IsAbs(id) {
		return false
	}
	_, err := uuid.Parse(path.Base(id))
	return err == nil
}

// find returns the single object stored under id.
func (c *Client) find(ctx context.Context, id string) (fs.Object, error) {
	if !validID(id) {
		return nil, fmt.Errorf("mediabox/rclone: object %q: %w", id, mediabox.ErrNotFound)
	}
	entries, err := c.remote.List(ctx, id)
	if err != nil {
		return nil, convertError(err)
	}
	for _, entry := range entries {
		if obj, ok := entry.(fs.Object); ok {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("mediabox/rclone: object %q: %w", id, mediabox.ErrNotFound)
}

func (c *Client) CreateObject(ctx context.Context, name, parentID string, content io.Reader, mimeType string) (string, error) {
	if name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("mediabox/rclone: %w: object name %q", mediabox.ErrInvalid, name)
	}
	id := path.Join(parentID, uuid.NewString())

	rc, ok := content.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(content)
	}
	// mimeType is not stored; remotes derive the content type from the name.
	if _, err := operations.Rcat(ctx, c.remote, path.Join(id, name), rc, time.Now(), nil); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) GetObject(ctx context.Context, id string) (io.ReadCloser, error) {
	obj, err := c.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return obj.Open(ctx)
}

func (c *Client) StatObject(ctx context.Context, id string, fields ...string) (*mediabox.RemoteObject, error) {
	obj, err := c.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.toRemoteObject(ctx, id, obj), nil
}

func (c *Client) toRemoteObject(ctx context.Context, id string, obj fs.Object) *mediabox.RemoteObject {
	return &mediabox.RemoteObject{
		ID:       id,
		Name:     path.Base(obj.Remote()),
		Size:     obj.Size(),
		ModTime:  obj.ModTime(ctx),
		MimeType: fs.MimeType(ctx, obj),
	}
}

func (c *Client) DeleteObject(ctx context.Context, id string) error {
	if _, err := c.find(ctx, id); err != nil {
		return err
	}
	c.links.Delete(id)
	return convertError(operations.Purge(ctx, c.remote, id))
}

// ListObjects walks parentID (or the whole remote) for objects named name.
// Results are ordered by modification time, oldest first.
func (c *Client) ListObjects(ctx context.Context, name, parentID string) ([]mediabox.RemoteObject, error) {
	maxLevel := -1
	if parentID != "" {
		maxLevel = 2
	}

	var out []mediabox.RemoteObject
	err := rcloneWalk.Walk(ctx, c.remote, parentID, false, maxLevel, func(walkPath string, entries fs.DirEntries, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrorDirNotFound) {
				return nil
			}
			return err
		}
		for _, entry := range entries {
			obj, ok := entry.(fs.Object)
			if !ok || path.Base(obj.Remote()) != name {
				continue
			}
			id := path.Dir(obj.Remote())
			if !validID(id) {
				continue
			}
			out = append(out, *c.toRemoteObject(ctx, id, obj))
		}
		return nil
	})
	if err != nil {
		return nil, convertError(err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.Before(out[j].ModTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GrantPublicRead asks the remote for a public link. Remotes without link
// support fail with ErrNotSupported unless the client assumes public access.
func (c *Client) GrantPublicRead(ctx context.Context, id string) error {
	obj, err := c.find(ctx, id)
	if err != nil {
		return err
	}
	linker, ok := c.remote.(fs.PublicLinker)
	if !ok {
		if c.assumePublic {
			return nil
		}
		return fmt.Errorf("mediabox/rclone: remote %s does not support public links: %w", c.remote.Name(), mediabox.ErrNotSupported)
	}
	link, err := linker.PublicLink(ctx, obj.Remote(), 0, false)
	if err != nil {
		if c.assumePublic {
			return nil
		}
		return err
	}
	c.links.Store(id, link)
	return nil
}

// PublicURL returns the link created by GrantPublicRead in this process,
// else the configured base joined with id. Without either it returns the
// rclone path of the object's directory, which is not an HTTP URL.
func (c *Client) PublicURL(id string) string {
	if v, ok := c.links.Load(id); ok {
		return v.(string)
	}
	if c.publicBase != "" {
		return strings.TrimRight(c.publicBase, "/") + "/" + id
	}
	return fspath.JoinRootPath(fs.ConfigString(c.remote), id)
}

// Helpers

func convertError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrorObjectNotFound) || errors.Is(err, fs.ErrorDirNotFound) {
		return fmt.Errorf("mediabox/rclone: %w", mediabox.ErrNotFound)
	}
	return err
}

// Compile-time interface checks.
var (
	_ mediabox.RemoteClient = (*Client)(nil)
	_ mediabox.PublicURLer  = (*Client)(nil)
)
