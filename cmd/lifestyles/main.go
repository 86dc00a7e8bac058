// Package main is the lifestyles CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/sezginpak/lifestyles/cmd/lifestyles/commands"
)

// version is injected at build time via ldflags.
var version = "dev"

func main() {
	rootCmd := commands.NewRootCmd(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
