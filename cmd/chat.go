package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VoxDroid/stovbot/internal/user"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot from the terminal",
	Long: "Read messages from stdin and print the bot's replies. Messages are sent as the\n" +
		"stored whoami identity (default Admin) unless --as is given. Type :quit or send EOF to stop.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sender, _ := cmd.Flags().GetString("as")
		if sender == "" {
			sender = user.SenderName()
		}
		return session{
			in:     cmd.InOrStdin(),
			out:    cmd.OutOrStdout(),
			sender: sender,
			source: "admin",
		}.run(cmd.Context())
	},
}

func init() {
	chatCmd.Flags().String("as", "", "Sender name for this session")
	rootCmd.AddCommand(chatCmd)
}
