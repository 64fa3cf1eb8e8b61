package mediabox

import (
	"os"
	"time"
)

// Visibility is the access level of a stored file.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Attributes describes a file as seen through the path-based contract.
type Attributes struct {
	Path         string     `json:"path"`
	Size         int64      `json:"size"`
	LastModified time.Time  `json:"lastModified"`
	MimeType     string     `json:"mimeType,omitempty"`
	Visibility   Visibility `json:"visibility,omitempty"`
	IsDir        bool       `json:"isDir"`
}

// ToFileInfo converts Attributes to a standard os.FileInfo.
func (a *Attributes) ToFileInfo() os.FileInfo {
	return &attributesFileInfo{a}
}

type attributesFileInfo struct {
	a *Attributes
}

func (w *attributesFileInfo) Name() string       { return Basename(w.a.Path) }
func (w *attributesFileInfo) Size() int64        { return w.a.Size }
func (w *attributesFileInfo) ModTime() time.Time { return w.a.LastModified }
func (w *attributesFileInfo) IsDir() bool        { return w.a.IsDir }
func (w *attributesFileInfo) Sys() interface{}   { return nil }

func (w *attributesFileInfo) Mode() os.FileMode {
	if w.a.IsDir {
		return os.ModeDir | 0o755
	}
	if w.a.Visibility == VisibilityPrivate {
		return 0o600
	}
	return 0o644
}

// RemoteObject is the metadata a RemoteClient reports for one object.
type RemoteObject struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Size     int64     `json:"size,omitempty"`
	ModTime  time.Time `json:"modTime,omitempty"`
	MimeType string    `json:"mimeType,omitempty"`
}

// Metadata fields a caller may ask StatObject for. Backends that cannot
// select fields return everything they know.
const (
	FieldSize     = "size"
	FieldModTime  = "modifiedTime"
	FieldMimeType = "mimeType"
	FieldName     = "name"
)

// WriteOption adjusts a single Write call.
type WriteOption func(*writeConfig)

type writeConfig struct {
	mimeType string
}

// WithMimeType overrides the MIME type inferred from the file extension.
func WithMimeType(mimeType string) WriteOption {
	return func(c *writeConfig) {
		c.mimeType = mimeType
	}
}
