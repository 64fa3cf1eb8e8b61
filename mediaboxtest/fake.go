package mediaboxtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing/iotest"
	"time"

	"github.com/nuln/mediabox"
)

// FakeClient is an in-memory mediabox.RemoteClient with fault injection.
// Objects are listed in creation order, so tie-break behaviour is
// reproducible. Set the Fail* fields to make the matching call fail.
type FakeClient struct {
	mu      sync.Mutex
	objects []*fakeObject
	nextID  int
	now     func() time.Time

	FailCreate error
	FailGrant  error
	FailGet    error
	FailStat   error
	FailDelete error
	FailList   error

	// FailRead makes object content fail with this error halfway through.
	FailRead error

	// Stale, when set, hides objects from ListObjects as a lagging
	// backend index would.
	Stale bool

	Creates []CreateCall
	Grants  []string
	Lists   int
}

// CreateCall records the arguments of one CreateObject call.
type CreateCall struct {
	Name     string
	ParentID string
	MimeType string
	Size     int
}

type fakeObject struct {
	mediabox.RemoteObject
	parentID string
	data     []byte
	public   bool
}

// NewFakeClient returns an empty FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{now: time.Now}
}

// Seed adds an object directly, bypassing CreateObject, and returns its ID.
func (c *FakeClient) Seed(name, parentID string, data []byte) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(name, parentID, data, mediabox.MimeTypeOf(name)).ID
}

// IsPublic reports whether id has been granted public read.
func (c *FakeClient) IsPublic(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o := c.find(id); o != nil {
		return o.public
	}
	return false
}

// Exists reports whether id is stored.
func (c *FakeClient) Exists(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(id) != nil
}

// Len returns the number of stored objects.
func (c *FakeClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.objects)
}

func (c *FakeClient) add(name, parentID string, data []byte, mimeType string) *fakeObject {
	c.nextID++
	o := &fakeObject{
		RemoteObject: mediabox.RemoteObject{
			ID:       fmt.Sprintf("fake-%04d", c.nextID),
			Name:     name,
			Size:     int64(len(data)),
			ModTime:  c.now(),
			MimeType: mimeType,
		},
		parentID: parentID,
		data:     data,
	}
	c.objects = append(c.objects, o)
	return o
}

func (c *FakeClient) find(id string) *fakeObject {
	for _, o := range c.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (c *FakeClient) CreateObject(ctx context.Context, name, parentID string, content io.Reader, mimeType string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.Creates = append(c.Creates, CreateCall{Name: name, ParentID: parentID, MimeType: mimeType, Size: len(data)})
	if c.FailCreate != nil {
		return "", c.FailCreate
	}
	return c.add(name, parentID, data, mimeType).ID, nil
}

func (c *FakeClient) GetObject(ctx context.Context, id string) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailGet != nil {
		return nil, c.FailGet
	}
	o := c.find(id)
	if o == nil {
		return nil, mediabox.ErrNotFound
	}
	data := bytes.Clone(o.data)
	if c.FailRead != nil {
		r := io.MultiReader(bytes.NewReader(data[:len(data)/2]), iotest.ErrReader(c.FailRead))
		return io.NopCloser(r), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (c *FakeClient) StatObject(ctx context.Context, id string, fields ...string) (*mediabox.RemoteObject, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailStat != nil {
		return nil, c.FailStat
	}
	o := c.find(id)
	if o == nil {
		return nil, mediabox.ErrNotFound
	}
	ro := o.RemoteObject
	return &ro, nil
}

func (c *FakeClient) DeleteObject(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailDelete != nil {
		return c.FailDelete
	}
	for i, o := range c.objects {
		if o.ID == id {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			return nil
		}
	}
	return mediabox.ErrNotFound
}

func (c *FakeClient) ListObjects(ctx context.Context, name, parentID string) ([]mediabox.RemoteObject, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Lists++
	if c.FailList != nil {
		return nil, c.FailList
	}
	if c.Stale {
		return nil, nil
	}
	var out []mediabox.RemoteObject
	for _, o := range c.objects {
		if o.Name != name {
			continue
		}
		if parentID != "" && o.parentID != parentID {
			continue
		}
		out = append(out, o.RemoteObject)
	}
	return out, nil
}

func (c *FakeClient) GrantPublicRead(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Grants = append(c.Grants, id)
	if c.FailGrant != nil {
		return c.FailGrant
	}
	o := c.find(id)
	if o == nil {
		return mediabox.ErrNotFound
	}
	o.public = true
	return nil
}

var _ mediabox.RemoteClient = (*FakeClient)(nil)
