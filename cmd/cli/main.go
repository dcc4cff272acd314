package main

import (
	"os"

	"github.com/limaJavier/twig/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
