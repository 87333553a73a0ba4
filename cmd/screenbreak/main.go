package main

import (
	"os"

	"screenbreak/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
