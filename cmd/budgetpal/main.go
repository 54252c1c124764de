package main

import (
	"os"

	"budgetpal/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	if err := newApp(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
