// Command mediabox reads and writes files through a configured mediabox
// driver.
//
//	mediabox --config mediabox.yaml put facilities/hall.jpg ./hall.jpg
//	mediabox --config mediabox.yaml url facilities/hall.jpg
package main

import (
	"fmt"
	"os"

	_ "github.com/nuln/mediabox/drivers"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mediabox:", err)
		os.Exit(1)
	}
}
