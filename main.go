// Package main is the entry point for the mutator CLI.
package main

import "mutator.dev/pkg/mutator/cmd"

func main() {
	cmd.Execute()
}
