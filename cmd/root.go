// file:arbor/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/rskv-p/arbor/cmd/cmd_tree"
)

var rootCmd = cmd_tree.NewRoot()

// Execute runs the arbor CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
