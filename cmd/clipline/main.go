// Package main is the entry point for the clipline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/clipline/clipline/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
