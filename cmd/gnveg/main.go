// Package main provides the gnveg CLI application.
// gnveg computes change metrics and inequality statistics for
// vegetation resurvey campaigns.
package main

import (
	"github.com/gnames/gnveg/cmd"
)

func main() {
	cmd.Execute()
}
