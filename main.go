package main

import (
	"os"

	"github.com/comanda-app/comanda/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
