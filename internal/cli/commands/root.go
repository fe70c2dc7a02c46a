package commands

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yuzurisub/subtrans/internal/config"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "subtrans <command>",
	Short: "Translate subtitle tracks with an LLM backend",
	Long: `subtrans extracts dialog from a subtitle file, filters out
non-translatable content (karaoke, signs, music lyrics), batches the
remainder to a configurable LLM provider, and reconstructs the file
with translations stitched back in.

Example:
  subtrans translate movie.ja.srt --target-lang en --provider openai`,
}

var settings config.Settings

func init() {
	if err := config.Init(""); err != nil {
		fmt.Printf("warning: could not initialize config: %v\n", err)
	}

	var err error
	settings, err = config.Load()
	if err != nil {
		fmt.Printf("warning: could not load settings: %v\n", err)
	}

	RootCmd.AddCommand(translateCmd)
	registerTranslateFlags(settings)

	cobra.OnInitialize(func() {
		viper.SetEnvPrefix("SUBTRANS")
		viper.AutomaticEnv()
	})
}

// ExitWithError prints err in the stage-tagged form subterr produces and
// returns the process exit code the caller should use.
func ExitWithError(err error) int {
	if err == nil {
		return 0
	}
	color.Redf("Error: %v\n", err)
	return 1
}
