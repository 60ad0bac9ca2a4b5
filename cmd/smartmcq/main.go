// Package main is the entry point for the smartmcq server and CLI.
//
// Commands: serve, author, user add, version.
package main

import (
	"fmt"
	"os"

	"github.com/smartmcq/smartmcq/cmd/smartmcq/commands"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
