package main

import (
	"os"

	"gitmsg/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
