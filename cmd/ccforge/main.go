// Package main provides the CLI entry point for CCForge.
package main

import (
	"os"

	"github.com/forgeline-labs/ccforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
