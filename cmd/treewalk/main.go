// Command treewalk walks a directory tree and applies an action to every file.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/treewalk/internal/cli"
)

// version is set at build time via -ldflags.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
