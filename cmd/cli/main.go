// Package main is the entry point for the inferguard CLI binary.
package main

import (
	"os"

	"inferguard/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
