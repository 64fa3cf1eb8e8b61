// Package drivers is a convenience package that registers all built-in
// remote client drivers. Import it with a blank identifier to make all
// drivers available:
//
//	import _ "github.com/nuln/mediabox/drivers"
package drivers

import (
	"github.com/nuln/mediabox"
	_ "github.com/nuln/mediabox/driver/gdrive"
	_ "github.com/nuln/mediabox/driver/local"
	_ "github.com/nuln/mediabox/driver/rclone"
)

// List returns a list of all registered drivers.
func List() []string {
	return mediabox.Drivers()
}
