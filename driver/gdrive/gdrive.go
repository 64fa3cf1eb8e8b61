// Package gdrive stores objects in Google Drive through the Drive v3 API.
//
// Authenticate either with a service account (option "credentialsFile") or
// with an OAuth client and refresh token (options "clientId",
// "clientSecret", "refreshToken"). With OAuth, option "tokenFile" persists
// refreshed tokens so later runs can start without a refresh token.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/nuln/mediabox"
)

// Auto-register Google Drive driver.
func init() {
	mediabox.Register("gdrive", func(cfg *mediabox.Config) (mediabox.RemoteClient, error) {
		opts, err := clientOptions(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return New(context.Background(), opts...)
	})
}

// defaultListFields are requested for name queries and full stats.
const defaultListFields = "id, " + mediabox.FieldName + ", " + mediabox.FieldSize + ", " +
	mediabox.FieldModTime + ", " + mediabox.FieldMimeType

func clientOptions(ctx context.Context, cfg *mediabox.Config) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if endpoint := cfg.Option("endpoint"); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	if file := cfg.Option("credentialsFile"); file != "" {
		return append(opts, option.WithCredentialsFile(file), option.WithScopes(drive.DriveScope)), nil
	}

	clientID, clientSecret := cfg.Option("clientId"), cfg.Option("clientSecret")
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("mediabox/gdrive: set option %q or both %q and %q", "credentialsFile", "clientId", "clientSecret")
	}
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveScope},
	}

	var store *TokenStore
	if path := cfg.Option("tokenFile"); path != "" {
		store = NewTokenStore(afero.NewOsFs(), path)
	}
	ts, err := NewTokenSource(ctx, conf, store, cfg.Option("refreshToken"))
	if err != nil {
		return nil, err
	}
	return append(opts, option.WithTokenSource(ts)), nil
}

// Client implements mediabox.RemoteClient on a Drive service.
type Client struct {
	svc *drive.Service
}

// New creates a Client. opts are passed to drive.NewService unchanged.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("mediabox/gdrive: create service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) CreateObject(ctx context.Context, name, parentID string, content io.Reader, mimeType string) (string, error) {
	file := &drive.File{Name: name, MimeType: mimeType}
	if parentID != "" {
		file.Parents = []string{parentID}
	}
	created, err := c.svc.Files.Create(file).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", convertError(err)
	}
	if created.Id == "" {
		return "", fmt.Errorf("mediabox/gdrive: create %q returned no id", name)
	}
	return created.Id, nil
}

func (c *Client) GetObject(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := c.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, convertError(err)
	}
	return resp.Body, nil
}

func (c *Client) StatObject(ctx context.Context, id string, fields ...string) (*mediabox.RemoteObject, error) {
	want := defaultListFields
	if len(fields) > 0 {
		want = strings.Join(append([]string{"id"}, fields...), ", ")
	}
	f, err := c.svc.Files.Get(id).Fields(googleapi.Field(want)).Context(ctx).Do()
	if err != nil {
		return nil, convertError(err)
	}
	obj := toRemoteObject(f)
	if obj.ID == "" {
		obj.ID = id
	}
	return &obj, nil
}

func (c *Client) DeleteObject(ctx context.Context, id string) error {
	return convertError(c.svc.Files.Delete(id).Context(ctx).Do())
}

// ListObjects runs a name query, scoped to parentID when set. Trashed files
// are excluded. Results keep the order Drive returns them in.
func (c *Client) ListObjects(ctx context.Context, name, parentID string) ([]mediabox.RemoteObject, error) {
	var out []mediabox.RemoteObject
	err := c.svc.Files.List().
		Q(NameQuery(name, parentID)).
		Fields(googleapi.Field("nextPageToken, files(" + defaultListFields + ")")).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				out = append(out, toRemoteObject(f))
			}
			return nil
		})
	if err != nil {
		return nil, convertError(err)
	}
	return out, nil
}

// GrantPublicRead gives anyone with the link read access.
func (c *Client) GrantPublicRead(ctx context.Context, id string) error {
	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	_, err := c.svc.Permissions.Create(id, perm).Fields("id").Context(ctx).Do()
	return convertError(err)
}

// PublicURL returns the direct download form of id.
func (c *Client) PublicURL(id string) string {
	return mediabox.DefaultPublicURLBase + id
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// NameQuery builds the Drive search expression for objects named name.
func NameQuery(name, parentID string) string {
	q := fmt.Sprintf("name = '%s' and trashed = false", queryEscaper.Replace(name))
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", queryEscaper.Replace(parentID))
	}
	return q
}

func toRemoteObject(f *drive.File) mediabox.RemoteObject {
	obj := mediabox.RemoteObject{
		ID:       f.Id,
		Name:     f.Name,
		Size:     f.Size,
		MimeType: f.MimeType,
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			obj.ModTime = t
		}
	}
	return obj
}

func convertError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return fmt.Errorf("mediabox/gdrive: %s: %w", gerr.Message, mediabox.ErrNotFound)
		case 401, 403:
			return fmt.Errorf("mediabox/gdrive: %s: %w", gerr.Message, mediabox.ErrPermission)
		}
	}
	return err
}

// Compile-time interface checks.
var (
	_ mediabox.RemoteClient = (*Client)(nil)
	_ mediabox.PublicURLer  = (*Client)(nil)
)
