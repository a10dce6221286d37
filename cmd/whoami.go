package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/stovbot/internal/user"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Manage the console identity",
	Long:  "Manage the persisted name `stovbot chat` and `stovbot replay` send messages as.",
}

var whoamiSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the console identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		if err := user.SetProfile(user.Profile{Name: name}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "chatting as: %s\n", name)
		return nil
	},
}

var whoamiClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the console identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := user.ClearProfile(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared console identity, chatting as %s\n", user.DefaultName)
		return nil
	},
}

var whoamiShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the console identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), user.SenderName())
		return nil
	},
}

func init() {
	whoamiSetCmd.Flags().StringP("name", "n", "", "Sender name (required)")
	whoamiCmd.AddCommand(whoamiSetCmd)
	whoamiCmd.AddCommand(whoamiClearCmd)
	whoamiCmd.AddCommand(whoamiShowCmd)
	rootCmd.AddCommand(whoamiCmd)
}
