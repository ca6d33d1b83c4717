// Package main provides the entry point for the transit CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/transit/internal/cli"
)

// Set via -ldflags at build time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	err := cli.Execute(context.Background(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	os.Exit(cli.ExitCodeForError(err))
}
