// Command storage-quest organizes item instances into grid-shaped storage
// units from the command line and serves the same store over HTTP.
package main

import "github.com/mesh-intelligence/storagequest/internal/cli"

func main() {
	cli.Execute()
}
