// SPDX-License-Identifier: MIT

// gfmesh builds, inspects and exercises DLR meshes stored in bbolt archives.
package main

import (
	"os"

	"github.com/katalvlaran/gfmesh/cmd/gfmesh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
