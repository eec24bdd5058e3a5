// Command bizdoc renders business documents to PDF and PPTX and serves them
// over HTTP.
package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	os.Exit(runMain(os.Args, DefaultEnv()))
}
