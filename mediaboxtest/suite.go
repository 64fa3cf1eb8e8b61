// Package mediaboxtest provides a conformance suite for mediabox drivers
// and an in-memory RemoteClient with fault injection for adapter tests.
package mediaboxtest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nuln/mediabox"
)

// AdapterTestSuite runs a comprehensive set of tests against an Adapter
// built on a driver. Call this in your driver tests to verify correctness:
//
//	func TestLocalDriver(t *testing.T) {
//	    client := local.NewWithFs(afero.NewMemMapFs())
//	    mediaboxtest.AdapterTestSuite(t, mediabox.New(client, mediabox.Options{}))
//	}
//
// The driver must make every written object publicly readable.
func AdapterTestSuite(t *testing.T, fs *mediabox.Adapter) { //nolint:gocyclo
	t.Helper()
	ctx := context.Background()

	t.Run("Write_Read_Exists_Delete", func(t *testing.T) {
		path := "suite/hello.txt"
		content := []byte("hello world")

		if fs.FileExists(ctx, path) {
			t.Fatalf("FileExists before Write = true, want false")
		}

		if err := fs.Write(ctx, path, content); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if !fs.FileExists(ctx, path) {
			t.Fatal("FileExists after Write = false, want true")
		}

		data, err := fs.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !bytes.Equal(data, content) {
			t.Errorf("content = %q, want %q", data, content)
		}

		if _, err := fs.ResolveFresh(ctx, path); err != nil {
			t.Fatalf("ResolveFresh after Write: %v", err)
		}

		if err := fs.Delete(ctx, path); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := fs.ResolveFresh(ctx, path); !errors.Is(err, mediabox.ErrResolutionFailed) {
			t.Errorf("ResolveFresh after Delete: err = %v, want ErrResolutionFailed", err)
		}
	})

	t.Run("Delete_Missing", func(t *testing.T) {
		if err := fs.Delete(ctx, "suite/never-written.bin"); err != nil {
			t.Errorf("Delete of missing file: %v, want nil", err)
		}
	})

	t.Run("Read_Missing", func(t *testing.T) {
		_, err := fs.Read(ctx, "suite/missing.png")
		if !errors.Is(err, mediabox.ErrReadFailed) {
			t.Errorf("Read missing: err = %v, want ErrReadFailed", err)
		}
	})

	t.Run("Streams", func(t *testing.T) {
		path := "suite/stream.json"
		if err := fs.WriteStream(ctx, path, strings.NewReader(`{"ok":true}`)); err != nil {
			t.Fatalf("WriteStream: %v", err)
		}
		rc, err := fs.ReadStream(ctx, path)
		if err != nil {
			t.Fatalf("ReadStream: %v", err)
		}
		data, _ := io.ReadAll(rc)
		_ = rc.Close()
		if string(data) != `{"ok":true}` {
			t.Errorf("ReadStream content = %q", data)
		}
		_ = fs.Delete(ctx, path)
	})

	t.Run("Metadata", func(t *testing.T) {
		path := "suite/meta.pdf"
		content := bytes.Repeat([]byte("x"), 1234)
		if err := fs.Write(ctx, path, content); err != nil {
			t.Fatalf("Write: %v", err)
		}

		size, ok := fs.FileSize(ctx, path)
		if !ok {
			t.Fatal("FileSize: absent, want 1234")
		}
		if size != int64(len(content)) {
			t.Errorf("FileSize = %d, want %d", size, len(content))
		}
		if _, ok := fs.LastModified(ctx, path); !ok {
			t.Error("LastModified: absent after Write")
		}
		if got := fs.MimeType(path); got != "application/pdf" {
			t.Errorf("MimeType = %q, want %q", got, "application/pdf")
		}
		if got := fs.Visibility(ctx, path); got != mediabox.VisibilityPublic {
			t.Errorf("Visibility = %q, want public", got)
		}

		if _, ok := fs.FileSize(ctx, "suite/absent.pdf"); ok {
			t.Error("FileSize of missing file should be absent")
		}
		if _, ok := fs.LastModified(ctx, "suite/absent.pdf"); ok {
			t.Error("LastModified of missing file should be absent")
		}
		_ = fs.Delete(ctx, path)
	})

	t.Run("PublicURL", func(t *testing.T) {
		path := "suite/url.png"
		if err := fs.Write(ctx, path, []byte("png")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		id, err := fs.Resolve(ctx, path)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		url := fs.PublicURL(ctx, path)
		if !strings.Contains(url, id) {
			t.Errorf("PublicURL = %q, want it to contain id %q", url, id)
		}
		_ = fs.Delete(ctx, path)

		abs := "https://cdn.example/already-a-url.png"
		if got := fs.PublicURL(ctx, abs); got != abs {
			t.Errorf("PublicURL(%q) = %q, want unchanged", abs, got)
		}
	})

	t.Run("Directories", func(t *testing.T) {
		if !fs.DirectoryExists(ctx, "suite/any/dir") {
			t.Error("DirectoryExists = false, want true")
		}
		if err := fs.CreateDirectory(ctx, "suite/new"); err != nil {
			t.Errorf("CreateDirectory: %v", err)
		}
		if err := fs.DeleteDirectory(ctx, "suite/new"); err != nil {
			t.Errorf("DeleteDirectory: %v", err)
		}
	})

	t.Run("Unimplemented", func(t *testing.T) {
		entries, err := fs.ListContents(ctx, "suite", true)
		if err != nil || len(entries) != 0 {
			t.Errorf("ListContents = %v, %v; want empty, nil", entries, err)
		}
		if err := fs.Move(ctx, "suite/a", "suite/b"); err != nil {
			t.Errorf("Move: %v", err)
		}
		if err := fs.Copy(ctx, "suite/a", "suite/b"); err != nil {
			t.Errorf("Copy: %v", err)
		}
		if err := fs.SetVisibility(ctx, "suite/a", mediabox.VisibilityPrivate); err != nil {
			t.Errorf("SetVisibility: %v", err)
		}
	})
}
