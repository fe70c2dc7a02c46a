package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuzurisub/subtrans/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(version.GetInfoFromGithub())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
