package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var variablesCmd = &cobra.Command{
	Use:   "variables",
	Short: "List stored variables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		vars, err := repo.ListVariables()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(vars) == 0 {
			fmt.Fprintln(out, "no variables")
			return nil
		}
		for _, v := range vars {
			fmt.Fprintf(out, "- %s (%s) = %s\tmodified %s\n", v.Name, v.Value.Kind, v.Value, humanize.Time(v.ModifiedAt))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variablesCmd)
}
