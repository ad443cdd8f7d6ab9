// Package main is the entry point for the prc CLI client.
package main

import (
	"github.com/mfreitas/promo-radar/cmd/prc/cmd"
)

func main() {
	cmd.Execute()
}
