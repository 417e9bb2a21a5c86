// Command codesearch indexes a repository and answers semantic search and
// chat queries over it, using an embedded vector store and dependency
// graph built from parsed source files.
package main

import "github.com/codesearch-core/codesearch/internal/cli"

func main() {
	cli.Execute()
}
