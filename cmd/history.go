package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent command and variable changes",
	Long:  "Show the audit log of changes made through chat, newest first (time, change, subject, user)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		recs, err := repo.ListEvents(limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "no history")
			return nil
		}
		for _, e := range recs {
			line := fmt.Sprintf("%s\t%s\t%s\t%s", humanize.Time(e.CreatedAt), e.Kind, e.Subject, e.Actor.String)
			if e.OldValue.Valid {
				line += fmt.Sprintf("\t%q ->", e.OldValue.String)
			}
			if e.NewValue.Valid {
				line += fmt.Sprintf("\t%q", e.NewValue.String)
			}
			if e.PersistError.Valid {
				line += "\t(not persisted: " + e.PersistError.String + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
