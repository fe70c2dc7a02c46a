// Command subtrans is the CLI entry point for the subtitle translation
// pipeline.
package main

import (
	"github.com/yuzurisub/subtrans/internal/cli"
)

func main() {
	cli.Run()
}
