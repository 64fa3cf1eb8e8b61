package mediabox

import (
	"context"
	"io"
	"time"
)

// Filesystem is the path-based contract consumed by controllers and
// services. *Adapter implements it.
type Filesystem interface {
	FileExists(ctx context.Context, path string) bool
	Read(ctx context.Context, path string) ([]byte, error)
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)
	Write(ctx context.Context, path string, contents []byte, opts ...WriteOption) error
	WriteStream(ctx context.Context, path string, r io.Reader, opts ...WriteOption) error
	Delete(ctx context.Context, path string) error

	DirectoryExists(ctx context.Context, path string) bool
	CreateDirectory(ctx context.Context, path string) error
	DeleteDirectory(ctx context.Context, path string) error

	SetVisibility(ctx context.Context, path string, v Visibility) error
	Visibility(ctx context.Context, path string) Visibility
	MimeType(path string) string
	LastModified(ctx context.Context, path string) (time.Time, bool)
	FileSize(ctx context.Context, path string) (int64, bool)

	ListContents(ctx context.Context, path string, deep bool) ([]*Attributes, error)
	Move(ctx context.Context, src, dst string) error
	Copy(ctx context.Context, src, dst string) error

	PublicURL(ctx context.Context, path string) string
}

// RemoteClient is the capability set the Adapter needs from an
// ID-addressed object backend. Implementations authenticate and refresh
// credentials on their own; every error they return is treated as an
// opaque cause.
type RemoteClient interface {
	// CreateObject stores content as a new object named name. parentID may
	// be empty. It returns the backend-assigned identifier.
	CreateObject(ctx context.Context, name, parentID string, content io.Reader, mimeType string) (string, error)

	// GetObject opens the content of an object.
	GetObject(ctx context.Context, id string) (io.ReadCloser, error)

	// StatObject returns metadata of an object, limited to fields when the
	// backend supports field selection.
	StatObject(ctx context.Context, id string, fields ...string) (*RemoteObject, error)

	// DeleteObject removes an object.
	DeleteObject(ctx context.Context, id string) error

	// ListObjects returns every object named exactly name, restricted to
	// parentID when it is not empty, in backend order.
	ListObjects(ctx context.Context, name, parentID string) ([]RemoteObject, error)

	// GrantPublicRead lets anyone fetch the object.
	GrantPublicRead(ctx context.Context, id string) error
}
