// Command reconciler runs built-in component scenarios against the
// in-memory host and validates reconciler.yaml files.
package main

import (
	"os"

	"github.com/go-drift/reconciler/cmd/reconciler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
