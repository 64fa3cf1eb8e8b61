// Package mediabox maps a path-based filesystem contract onto a flat,
// ID-addressed object backend such as Google Drive.
//
// Callers use paths like "facilities/hall.jpg". The backend only knows
// opaque object IDs, has no directories, answers name queries with
// eventual consistency and needs a separate call to make an object public.
// An [Adapter] bridges the two: a [Resolver] turns a path into an ID by
// consulting an identifier cache (see package idcache) and falling back to
// a name query on the basename, and every remote failure is reported as one
// of [ErrResolutionFailed], [ErrReadFailed], [ErrWriteFailed] or
// [ErrDeleteFailed].
//
// # Supported Drivers
//
//   - gdrive — Google Drive v3 API (import _ "github.com/nuln/mediabox/driver/gdrive")
//   - rclone — Any rclone-supported remote (import _ "github.com/nuln/mediabox/driver/rclone")
//   - local  — ID-addressed object store on a local directory via afero (import _ "github.com/nuln/mediabox/driver/local")
//
// # Quick Start
//
//	import (
//	    "github.com/nuln/mediabox"
//	    _ "github.com/nuln/mediabox/driver/gdrive"
//	)
//
//	fs, err := mediabox.Open(&mediabox.Config{
//	    Driver:   "gdrive",
//	    FolderID: "1AbC...",
//	    Options:  map[string]any{"credentialsFile": "service-account.json"},
//	})
//	err = fs.Write(ctx, "facilities/hall.jpg", data)
//	url := fs.PublicURL(ctx, "facilities/hall.jpg")
//
// # Import All Drivers
//
//	import _ "github.com/nuln/mediabox/drivers"
//
// # Consistency
//
// Names are not unique on the backend. When several objects share a
// basename the first one listed wins (see [FirstMatch]). Deleting a file
// leaves its cache entry in place, so until the entry expires
// [Adapter.PublicURL] and [Adapter.Resolve] may still return the deleted
// object's ID.
package mediabox
