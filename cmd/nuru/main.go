// Command nuru is the route-pipeline CLI: it parses, validates, and
// compiles route patterns, resolves argument vectors against a route
// manifest, and renders the command surface of a manifest as help text.
package main

import (
	"os"

	"github.com/nuru-cli/nuru/cmd/nuru/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
