package main

import (
	"os"

	"github.com/lydakis/cadbridge/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
