package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VoxDroid/stovbot/internal/config"
	"github.com/VoxDroid/stovbot/internal/logging"
)

var (
	cfgFile string
	verbose bool

	cfg      = config.Default()
	logger   = zap.NewNop()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "stovbot",
	Short: "stovbot is a chat bot with scriptable, user-editable commands",
	Long: "stovbot answers chat messages from a SQLite-backed registry of commands.\n" +
		"Responses may embed {{ scripts }} that run in a sandboxed child process.",
	SilenceUsage:       true,
	PersistentPreRunE:  func(*cobra.Command, []string) error { return setup() },
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeLog() },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "stovbot: run 'stovbot --help' to see available commands")
	},
}

// setup loads configuration and builds the logger for the command being run.
func setup() error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	l, closer, err := logging.New(c.Log, verbose)
	if err != nil {
		return err
	}
	cfg, logger, closeLog = c, l, closer
	return nil
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $STOVBOT_HOME/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
