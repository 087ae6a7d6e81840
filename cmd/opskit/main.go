// Package main provides the opskit CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/opskit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
