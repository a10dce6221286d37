package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/stovbot/internal/sandbox"
)

// scriptEngineCmd is the sandbox child. It reads its settings from the
// environment the parent sets, so it skips config and logging setup.
var scriptEngineCmd = &cobra.Command{
	Use:                sandbox.EngineCommand + " <script>",
	Short:              "Evaluate one script and exit (used internally)",
	Hidden:             true,
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	Run: func(_ *cobra.Command, args []string) {
		os.Exit(sandbox.Serve(args, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(scriptEngineCmd)
}
