// unitconv converts quantities between units of the same physical dimension.
// Single binary: an HTTP service for the web front end plus a local CLI.
package main

import (
	"os"

	"github.com/Nicolas2912/UnitConverter/cmd/unitconv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
