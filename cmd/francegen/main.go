// Command francegen converts georeferenced Lambert93 GeoTIFF elevation
// tiles into a Minecraft Anvil-format world directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "francegen:", err)
		os.Exit(1)
	}
}
