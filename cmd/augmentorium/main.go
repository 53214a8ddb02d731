// Command augmentorium indexes a codebase into a vector store and a
// call/reference graph, then serves semantic search over both.
package main

import "github.com/augmentorium/augmentorium/internal/cli"

func main() {
	cli.Execute()
}
