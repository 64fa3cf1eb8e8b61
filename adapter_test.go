package mediabox_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nuln/mediabox"
	"github.com/nuln/mediabox/idcache"
	"github.com/nuln/mediabox/mediaboxtest"
)

var errBackend = errors.New("backend unavailable")

func newAdapter(client *mediaboxtest.FakeClient, opts mediabox.Options) *mediabox.Adapter {
	return mediabox.New(client, opts)
}

func TestAdapter_Suite(t *testing.T) {
	mediaboxtest.AdapterTestSuite(t, newAdapter(mediaboxtest.NewFakeClient(), mediabox.Options{}))
}

func TestAdapter_Suite_WithFolder(t *testing.T) {
	mediaboxtest.AdapterTestSuite(t, newAdapter(mediaboxtest.NewFakeClient(), mediabox.Options{
		FolderID:   "F1",
		PathPrefix: "uploads",
	}))
}

func TestAdapter_WriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := newAdapter(mediaboxtest.NewFakeClient(), mediabox.Options{})

	tests := []struct {
		path string
		data []byte
	}{
		{"facilities/hall.jpg", bytes.Repeat([]byte{0xFF, 0xD8}, 1024)},
		{"staff/photo.png", []byte("png")},
		{"empty.txt", []byte{}},
		{"deep/nested/dir/report.pdf", []byte("%PDF-1.7")},
		{"no-extension", []byte("raw")},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if err := fs.Write(ctx, tt.path, tt.data); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := fs.Read(ctx, tt.path)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("Read = %d bytes, want %d", len(got), len(tt.data))
			}
		})
	}
}

func TestAdapter_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{})

	if err := fs.Delete(ctx, "never/there.png"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	if err := fs.Write(ctx, "gallery/a.png", []byte("a")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fs.Delete(ctx, "gallery/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// The cache still names the deleted object; the backend reports it gone.
	if err := fs.Delete(ctx, "gallery/a.png"); err != nil {
		t.Errorf("second Delete: %v, want nil", err)
	}
	if client.Len() != 0 {
		t.Errorf("objects left = %d, want 0", client.Len())
	}
}

func TestAdapter_DeleteIgnoresResolutionErrors(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	client.FailList = errBackend
	fs := newAdapter(client, mediabox.Options{})

	if err := fs.Delete(context.Background(), "any.png"); err != nil {
		t.Errorf("Delete with failing query: %v, want nil", err)
	}
}

func TestAdapter_DeleteFailed(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{})

	if err := fs.Write(ctx, "docs/a.pdf", []byte("a")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	client.FailDelete = errBackend

	err := fs.Delete(ctx, "docs/a.pdf")
	if !errors.Is(err, mediabox.ErrDeleteFailed) {
		t.Fatalf("err = %v, want ErrDeleteFailed", err)
	}
	if !errors.Is(err, errBackend) {
		t.Errorf("err = %v, want cause %v", err, errBackend)
	}
	var pe *mediabox.PathError
	if !errors.As(err, &pe) || pe.Path != "docs/a.pdf" {
		t.Errorf("PathError = %+v, want path docs/a.pdf", pe)
	}
}

func TestAdapter_ExistsReflectsWrite(t *testing.T) {
	ctx := context.Background()
	fs := newAdapter(mediaboxtest.NewFakeClient(), mediabox.Options{})

	if fs.FileExists(ctx, "students/card.jpg") {
		t.Fatal("FileExists before write = true")
	}
	if err := fs.Write(ctx, "students/card.jpg", []byte("jpg")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !fs.FileExists(ctx, "students/card.jpg") {
		t.Fatal("FileExists after write = false")
	}
	if err := fs.Delete(ctx, "students/card.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.ResolveFresh(ctx, "students/card.jpg"); !errors.Is(err, mediabox.ErrResolutionFailed) {
		t.Errorf("ResolveFresh after delete: %v, want ErrResolutionFailed", err)
	}
}

func TestAdapter_ExistsSwallowsBackendErrors(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	client.FailList = errBackend
	fs := newAdapter(client, mediabox.Options{})

	if fs.FileExists(context.Background(), "x.png") {
		t.Error("FileExists with failing backend = true, want false")
	}
}

func TestAdapter_MimeTypeIsPure(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	client.FailList = errBackend
	client.FailStat = errBackend
	fs := newAdapter(client, mediabox.Options{})

	tests := map[string]string{
		"anything.png":            "image/png",
		"a/b/PHOTO.JPG":           "image/jpeg",
		"x.jpeg":                  "image/jpeg",
		"anim.gif":                "image/gif",
		"pic.webp":                "image/webp",
		"doc.pdf":                 "application/pdf",
		"notes.txt":               "text/plain",
		"page.html":               "text/html",
		"style.css":               "text/css",
		"app.js":                  "application/javascript",
		"data.json":               "application/json",
		"feed.xml":                "application/xml",
		"archive.zip":             "application/zip",
		"anything.unknownext":     "application/octet-stream",
		"Makefile":                "application/octet-stream",
		"dir.with.dots/file.tar":  "application/octet-stream",
		"dir.with.dots/image.png": "image/png",
	}
	for path, want := range tests {
		if got := fs.MimeType(path); got != want {
			t.Errorf("MimeType(%q) = %q, want %q", path, got, want)
		}
	}
	if client.Lists != 0 {
		t.Errorf("MimeType queried the backend %d times", client.Lists)
	}
}

func TestAdapter_GrantFailureFailsWrite(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	client.FailGrant = errBackend
	cache := idcache.NewMemory(nil)
	reg := prometheus.NewRegistry()
	metrics, err := mediabox.NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	fs := newAdapter(client, mediabox.Options{Cache: cache, Metrics: metrics})

	err = fs.Write(ctx, "facilities/lab.jpg", []byte("jpg"))
	if !errors.Is(err, mediabox.ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
	if !errors.Is(err, errBackend) {
		t.Errorf("err = %v, want cause %v", err, errBackend)
	}

	// The object exists remotely but stays private and unmapped.
	if len(client.Creates) != 1 || client.Len() != 1 {
		t.Fatalf("creates = %d, objects = %d, want 1 and 1", len(client.Creates), client.Len())
	}
	orphan := client.Grants[0]
	if client.IsPublic(orphan) {
		t.Error("orphaned object is public")
	}
	if cache.Len() != 0 {
		t.Errorf("cache entries = %d, want 0", cache.Len())
	}
	if got := testutil.ToFloat64(metrics.OrphanedObjects()); got != 1 {
		t.Errorf("orphaned metric = %v, want 1", got)
	}

	// A retry must create a fresh object instead of trusting a cache hit.
	client.FailGrant = nil
	if err := fs.Write(ctx, "facilities/lab.jpg", []byte("jpg")); err != nil {
		t.Fatalf("retry Write: %v", err)
	}
	if len(client.Creates) != 2 {
		t.Errorf("creates after retry = %d, want 2", len(client.Creates))
	}
	id, ok, _ := cache.Get(ctx, "facilities/lab.jpg")
	if !ok || id == orphan {
		t.Errorf("cache after retry = %q (ok=%v), want a new id", id, ok)
	}
	if !client.IsPublic(id) {
		t.Error("retried object is not public")
	}
}

func TestAdapter_CreateFailureSkipsGrant(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	client.FailCreate = errBackend
	fs := newAdapter(client, mediabox.Options{})

	err := fs.Write(context.Background(), "a.png", []byte("a"))
	if !errors.Is(err, mediabox.ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
	if len(client.Grants) != 0 {
		t.Errorf("grants = %d, want 0", len(client.Grants))
	}
}

type failingStore struct {
	idcache.Store
}

func (failingStore) Put(ctx context.Context, key, id string, ttl time.Duration) error {
	return errBackend
}

func TestAdapter_CachePutFailureFailsWrite(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{Cache: failingStore{idcache.NewMemory(nil)}})

	err := fs.Write(context.Background(), "a.png", []byte("a"))
	if !errors.Is(err, mediabox.ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
}

func TestAdapter_EmptyPath(t *testing.T) {
	fs := newAdapter(mediaboxtest.NewFakeClient(), mediabox.Options{})
	if err := fs.Write(context.Background(), "", []byte("a")); !errors.Is(err, mediabox.ErrWriteFailed) {
		t.Errorf("Write empty path: %v, want ErrWriteFailed", err)
	}
	if err := fs.Write(context.Background(), "dir/", []byte("a")); err != nil {
		t.Errorf("Write trailing slash: %v", err)
	}

	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	prefixed := newAdapter(client, mediabox.Options{PathPrefix: "uploads"})
	for _, path := range []string{"", "/"} {
		if err := prefixed.Write(ctx, path, []byte("a")); !errors.Is(err, mediabox.ErrWriteFailed) {
			t.Errorf("Write(%q) with prefix: %v, want ErrWriteFailed", path, err)
		}
		if _, err := prefixed.Read(ctx, path); !errors.Is(err, mediabox.ErrReadFailed) {
			t.Errorf("Read(%q) with prefix: %v, want ErrReadFailed", path, err)
		}
		if prefixed.FileExists(ctx, path) {
			t.Errorf("FileExists(%q) with prefix = true", path)
		}
	}
	if len(client.Creates) != 0 {
		t.Errorf("created %+v, want no objects", client.Creates)
	}
}

func TestAdapter_TieBreakIsFirstMatch(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	first := client.Seed("dup.jpg", "F1", []byte("first"))
	client.Seed("dup.jpg", "F1", []byte("second"))
	client.Seed("dup.jpg", "OTHER", []byte("elsewhere"))

	fs := newAdapter(client, mediabox.Options{FolderID: "F1", CacheTTL: time.Hour})

	for i := 0; i < 3; i++ {
		id, err := fs.Resolve(ctx, "gallery/dup.jpg")
		if err != nil {
			t.Fatalf("Resolve #%d: %v", i, err)
		}
		if id != first {
			t.Errorf("Resolve #%d = %q, want %q", i, id, first)
		}
		fresh, err := fs.ResolveFresh(ctx, "gallery/dup.jpg")
		if err != nil || fresh != first {
			t.Errorf("ResolveFresh #%d = %q, %v; want %q", i, fresh, err, first)
		}
	}

	data, err := fs.Read(ctx, "gallery/dup.jpg")
	if err != nil || string(data) != "first" {
		t.Errorf("Read = %q, %v; want first", data, err)
	}
}

func TestAdapter_CustomTieBreak(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	client.Seed("dup.jpg", "", []byte("first"))
	last := client.Seed("dup.jpg", "", []byte("second"))

	fs := newAdapter(client, mediabox.Options{
		TieBreak: func(c []mediabox.RemoteObject) mediabox.RemoteObject { return c[len(c)-1] },
	})
	id, err := fs.Resolve(context.Background(), "dup.jpg")
	if err != nil || id != last {
		t.Errorf("Resolve = %q, %v; want %q", id, err, last)
	}
}

func TestAdapter_FacilityScenario(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{FolderID: "F1"})

	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x42}, 2044)...)
	if err := fs.Write(ctx, "facilities/hall.jpg", jpeg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(client.Creates) != 1 {
		t.Fatalf("creates = %d, want 1", len(client.Creates))
	}
	call := client.Creates[0]
	if call.Name != "hall.jpg" || call.ParentID != "F1" || call.MimeType != "image/jpeg" || call.Size != 2048 {
		t.Errorf("create call = %+v", call)
	}
	if len(client.Grants) != 1 || !client.IsPublic(client.Grants[0]) {
		t.Fatalf("grants = %v, want one successful grant", client.Grants)
	}
	id := client.Grants[0]

	got, err := fs.Read(ctx, "facilities/hall.jpg")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, jpeg) {
		t.Errorf("Read returned %d bytes, want the original 2048", len(got))
	}

	if got, want := fs.PublicURL(ctx, "facilities/hall.jpg"), mediabox.DefaultPublicURLBase+id; got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
	if client.Lists != 0 {
		t.Errorf("name queries = %d, want 0 (all served from cache)", client.Lists)
	}
}

func TestAdapter_PublicURLHeuristics(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{})

	abs := "https://cdn.example/already-a-url.png"
	if got := fs.PublicURL(ctx, abs); got != abs {
		t.Errorf("PublicURL(%q) = %q, want unchanged", abs, got)
	}
	if got, want := fs.PublicURL(ctx, "photos/1AbCdEfGh"), mediabox.DefaultPublicURLBase+"1AbCdEfGh"; got != want {
		t.Errorf("PublicURL(raw id) = %q, want %q", got, want)
	}

	id := client.Seed("found.png", "", []byte("x"))
	if got, want := fs.PublicURL(ctx, "any/found.png"), mediabox.DefaultPublicURLBase+id; got != want {
		t.Errorf("PublicURL(resolvable) = %q, want %q", got, want)
	}
}

func TestAdapter_PublicURLBuilder(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	id := client.Seed("a.png", "", []byte("a"))
	fs := newAdapter(client, mediabox.Options{
		PublicURL: func(id string) string { return "https://img.example/" + id },
	})
	if got := fs.PublicURL(context.Background(), "a.png"); got != "https://img.example/"+id {
		t.Errorf("PublicURL = %q", got)
	}
}

func TestAdapter_StaleCacheAfterDelete(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{})

	if err := fs.Write(ctx, "news/banner.webp", []byte("w")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	id, _ := fs.Resolve(ctx, "news/banner.webp")
	if err := fs.Delete(ctx, "news/banner.webp"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Entries are not invalidated on delete; the stale ID stays visible.
	if got := fs.PublicURL(ctx, "news/banner.webp"); got != mediabox.DefaultPublicURLBase+id {
		t.Errorf("PublicURL after delete = %q, want stale id %q", got, id)
	}
	if !fs.FileExists(ctx, "news/banner.webp") {
		t.Error("FileExists after delete = false, want stale true within TTL")
	}
}

func TestAdapter_OnlyWriterSeesWriteThroughLaggingIndex(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	writer := newAdapter(client, mediabox.Options{})
	other := newAdapter(client, mediabox.Options{})

	client.Stale = true
	if err := writer.Write(ctx, "fresh.png", []byte("f")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !writer.FileExists(ctx, "fresh.png") {
		t.Error("writer cannot see its own write")
	}
	if other.FileExists(ctx, "fresh.png") {
		t.Error("other process saw the write through a lagging index")
	}

	client.Stale = false
	if !other.FileExists(ctx, "fresh.png") {
		t.Error("other process cannot see the write once the index caught up")
	}
}

func TestAdapter_ReadFailures(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{})

	_, err := fs.Read(ctx, "missing.png")
	if !errors.Is(err, mediabox.ErrReadFailed) {
		t.Fatalf("Read missing: %v, want ErrReadFailed", err)
	}
	if errors.Is(err, mediabox.ErrResolutionFailed) {
		t.Error("Read error should carry a single kind")
	}
	if !strings.Contains(err.Error(), `read "missing.png"`) {
		t.Errorf("error message = %q", err.Error())
	}

	if err := fs.Write(ctx, "ok.png", []byte("ok")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	client.FailGet = errBackend
	if _, err := fs.Read(ctx, "ok.png"); !errors.Is(err, mediabox.ErrReadFailed) || !errors.Is(err, errBackend) {
		t.Errorf("Read with failing fetch: %v", err)
	}
}

func TestAdapter_MetadataIsBestEffort(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{})

	if err := fs.Write(ctx, "report.pdf", []byte("12345")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if size, ok := fs.FileSize(ctx, "report.pdf"); !ok || size != 5 {
		t.Errorf("FileSize = %d, %v; want 5, true", size, ok)
	}
	if mod, ok := fs.LastModified(ctx, "report.pdf"); !ok || mod.IsZero() {
		t.Errorf("LastModified = %v, %v", mod, ok)
	}

	client.FailStat = errBackend
	if _, ok := fs.FileSize(ctx, "report.pdf"); ok {
		t.Error("FileSize with failing backend should be absent")
	}
	if _, ok := fs.LastModified(ctx, "report.pdf"); ok {
		t.Error("LastModified with failing backend should be absent")
	}
	if got := fs.Visibility(ctx, "report.pdf"); got != mediabox.VisibilityPublic {
		t.Errorf("Visibility = %q", got)
	}
}

func TestAdapter_ExpiredEntryIsResolvedAgain(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cache := idcache.NewMemory(func() time.Time { return now })
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{Cache: cache, CacheTTL: time.Hour})

	if err := fs.Write(ctx, "facilities/pool.jpg", []byte("jpeg")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	id, err := fs.Resolve(ctx, "facilities/pool.jpg")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if client.Lists != 0 {
		t.Errorf("Lists = %d before expiry, want 0", client.Lists)
	}

	now = now.Add(2 * time.Hour)
	again, err := fs.Resolve(ctx, "facilities/pool.jpg")
	if err != nil {
		t.Fatalf("Resolve after expiry: %v", err)
	}
	if again != id {
		t.Errorf("Resolve after expiry = %q, want %q", again, id)
	}
	if client.Lists != 1 {
		t.Errorf("Lists = %d after expiry, want 1", client.Lists)
	}

	// The fresh lookup is cached again.
	if _, err := fs.Read(ctx, "facilities/pool.jpg"); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if client.Lists != 1 {
		t.Errorf("Lists = %d after re-caching, want 1", client.Lists)
	}
}

func TestAdapter_PathPrefixNamespacesCache(t *testing.T) {
	ctx := context.Background()
	client := mediaboxtest.NewFakeClient()
	cache := idcache.NewMemory(nil)
	fs := newAdapter(client, mediabox.Options{PathPrefix: "/school/", Cache: cache})

	if err := fs.Write(ctx, "facilities/gym.jpg", []byte("g")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "school/facilities/gym.jpg"); !ok {
		t.Error("cache key is not prefixed")
	}
	if client.Creates[0].Name != "gym.jpg" {
		t.Errorf("created name = %q, want gym.jpg", client.Creates[0].Name)
	}
}

func TestAdapter_WithMimeType(t *testing.T) {
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{})

	err := fs.Write(context.Background(), "scan", []byte("x"), mediabox.WithMimeType("image/tiff"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := client.Creates[0].MimeType; got != "image/tiff" {
		t.Errorf("MimeType = %q, want image/tiff", got)
	}
}

func TestAdapter_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics, err := mediabox.NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{Metrics: metrics})

	_ = fs.Write(ctx, "m.png", []byte("m"))
	_, _ = fs.Read(ctx, "m.png")
	_, _ = fs.Read(ctx, "absent.png")

	if got := testutil.ToFloat64(metrics.Operations().WithLabelValues("write", "ok")); got != 1 {
		t.Errorf("write ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Operations().WithLabelValues("read", "error")); got != 1 {
		t.Errorf("read error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheLookups().WithLabelValues("hit")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}

	if _, err := mediabox.NewMetrics(reg); err == nil {
		t.Error("registering twice should fail")
	}
}

func TestAdapter_ReadBodyFailureCountsAsError(t *testing.T) {
	ctx := context.Background()
	metrics, err := mediabox.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	client := mediaboxtest.NewFakeClient()
	fs := newAdapter(client, mediabox.Options{Metrics: metrics})

	if err := fs.Write(ctx, "r.png", []byte("truncated body")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	client.FailRead = errBackend

	_, err = fs.Read(ctx, "r.png")
	if !errors.Is(err, mediabox.ErrReadFailed) || !errors.Is(err, errBackend) {
		t.Errorf("Read = %v, want ErrReadFailed caused by %v", err, errBackend)
	}
	if got := testutil.ToFloat64(metrics.Operations().WithLabelValues("read", "error")); got != 1 {
		t.Errorf("read error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Operations().WithLabelValues("read", "ok")); got != 0 {
		t.Errorf("read ok = %v, want 0", got)
	}
}

func TestAdapter_Close(t *testing.T) {
	fs := newAdapter(mediaboxtest.NewFakeClient(), mediabox.Options{})
	if err := fs.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
