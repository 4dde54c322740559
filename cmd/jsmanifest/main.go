package main

import (
	"github.com/lkoehl/jsmanifest/internal/cli"
)

func main() {
	cli.Execute()
}
