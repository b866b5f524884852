package main

import (
	"os"

	"github.com/witch-agent/vibe-coder/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
