package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/stovbot/internal/user"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Feed a file of chat messages to the bot",
	Long: "Send each line of a file to the bot and print the conversation.\n" +
		"Blank lines and lines starting with '#' are skipped. Example:\n  stovbot replay session.txt --as Stovoy",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open replay file: %w", err)
		}
		defer func() { _ = f.Close() }()

		sender, _ := cmd.Flags().GetString("as")
		if sender == "" {
			sender = user.SenderName()
		}
		return session{
			in:     f,
			out:    cmd.OutOrStdout(),
			sender: sender,
			source: "replay",
			echo:   true,
		}.run(cmd.Context())
	},
}

func init() {
	replayCmd.Flags().String("as", "", "Sender name for the replayed messages")
	rootCmd.AddCommand(replayCmd)
}
