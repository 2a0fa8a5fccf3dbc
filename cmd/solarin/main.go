// Package main is the single-binary entrypoint for Solarin, a local
// vitamin D exposure tracker.
package main

import "github.com/solarin-app/solarin/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
