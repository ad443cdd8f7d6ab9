// Package main is the entry point for the promo-radar server.
package main

import (
	"os"

	"github.com/mfreitas/promo-radar/cmd/promo-radar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
