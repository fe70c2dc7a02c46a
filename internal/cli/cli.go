// Package cli wires the Cobra command tree to the pipeline packages and
// runs it as the program's entry point.
package cli

import (
	"os"

	"github.com/yuzurisub/subtrans/internal/cli/commands"
)

// Run executes the root command and exits the process with a non-zero
// status if it fails.
func Run() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(commands.ExitWithError(err))
	}
}
