package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/stovbot/internal/command"
	"github.com/VoxDroid/stovbot/internal/importer"
	"github.com/VoxDroid/stovbot/internal/utils"
)

var importCmd = &cobra.Command{
	Use:   "import <src.db>",
	Short: "Merge commands and variables from another stovbot database",
	Long: "Copy user commands and variables from a stovbot database file into the active one.\n" +
		"Existing entries are kept unless --overwrite is given. Built-in and default commands are never imported.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()
		if overwrite && !yes && !utils.Confirm("Replace existing commands and variables?", cmd.InOrStdin(), out) {
			fmt.Fprintln(out, "import cancelled")
			return nil
		}

		repo, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		sum, err := importer.ImportDatabase(repo, args[0], importer.Options{
			Overwrite: overwrite,
			Skip:      protectedTrigger,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "commands: %d added, %d replaced, %d skipped\n", sum.CommandsAdded, sum.CommandsReplaced, sum.CommandsSkipped)
		fmt.Fprintf(out, "variables: %d added, %d replaced, %d skipped\n", sum.VariablesAdded, sum.VariablesReplaced, sum.VariablesSkipped)
		return nil
	},
}

// protectedTrigger reports built-in and default triggers.
func protectedTrigger(trigger string) bool {
	for _, c := range append(command.BuiltIns(), command.Defaults()...) {
		if c.Trigger == trigger {
			return true
		}
	}
	return false
}

func init() {
	importCmd.Flags().Bool("overwrite", false, "Replace existing commands and variables")
	importCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(importCmd)
}
