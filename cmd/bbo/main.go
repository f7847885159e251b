// Command bbo runs grid-based black-box optimization experiments from the
// command line.
package main

import "github.com/shaman-labs/bbo/internal/cli"

func main() {
	cli.Execute()
}
