package main

import (
	"os"

	"github.com/agentdeck/agentdeck/internal/cli"
)

func main() {
	code, _ := cli.Run(os.Args, nil)
	os.Exit(code)
}
