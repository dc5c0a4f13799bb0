package main

import (
	"os"

	"github.com/andywolf/codelens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
