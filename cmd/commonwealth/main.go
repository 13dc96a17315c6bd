package main

import (
	"os"
)

func main() {
	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	if err := newRootCommand(wiring).Execute(); err != nil {
		os.Exit(1)
	}
}
