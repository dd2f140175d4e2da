// Package main is the entry point for lcv-seed.
package main

import (
	"fmt"
	"os"

	"github.com/quddusi-t/lcv-retail-analytics-platform/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
