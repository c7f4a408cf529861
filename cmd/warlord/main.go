// Package main is the warlord command line entry point.
package main

import "github.com/cory-johannsen/warlord/internal/cli"

func main() {
	cli.Execute()
}
