package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/stovbot/internal/command"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the bot's commands",
	Long:  "List built-in, default and user commands. Example:\n  stovbot commands --filter quote --fuzzy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()
		engine, err := startEngine(repo, nil)
		if err != nil {
			return err
		}
		reg := engine.Registry()

		textFilter, _ := cmd.Flags().GetString("filter")
		fuzzyFlag, _ := cmd.Flags().GetBool("fuzzy")
		var list []*command.Command
		switch {
		case textFilter == "":
			list = reg.All()
		case fuzzyFlag:
			list = reg.Search(textFilter)
		default:
			q := strings.ToLower(textFilter)
			for _, c := range reg.All() {
				if strings.Contains(strings.ToLower(c.Trigger), q) || strings.Contains(strings.ToLower(c.Response), q) {
					list = append(list, c)
				}
			}
		}

		out := cmd.OutOrStdout()
		for _, c := range list {
			var tags []string
			if reg.IsBuiltIn(c.Trigger) {
				tags = append(tags, "built-in")
			}
			if c.IsAlias {
				tags = append(tags, "alias")
			}
			line := fmt.Sprintf("- %s\t%s", c.Trigger, c.Response)
			if len(tags) > 0 {
				line += "\t(" + strings.Join(tags, ", ") + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	commandsCmd.Flags().String("filter", "", "Filter by text search")
	commandsCmd.Flags().Bool("fuzzy", false, "Enable fuzzy matching for text filter")
	rootCmd.AddCommand(commandsCmd)
}
