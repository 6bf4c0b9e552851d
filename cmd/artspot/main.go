package main

import (
	"fmt"
	"os"

	"github.com/Makepad-fr/artspot/internal/cli"
)

func main() {
	// Root flags (--group, --verbose, --config) are parsed by the CLI runner.
	code := cli.Run(os.Args[1:], cli.Options{})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
