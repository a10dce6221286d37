package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/stovbot/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export [dst]",
	Short: "Back up the database to a file",
	Long:  "Write a consistent copy of the database. Without dst the copy goes to ./stovbot-<date>.db",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dst := ""
		if len(args) == 1 {
			dst = args[0]
		}
		if dst == "" {
			dst = defaultExportPath(time.Now())
		}
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()
		if err := exporter.ExportDatabase(repo.DB(), dst); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported database to %s\n", dst)
		return nil
	},
}

// defaultExportPath picks the first free stovbot-<date>[-n].db in the
// working directory.
func defaultExportPath(now time.Time) string {
	date := now.UTC().Format("2006-01-02")
	dst := filepath.Join(".", fmt.Sprintf("stovbot-%s.db", date))
	for i := 1; ; i++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			return dst
		}
		dst = filepath.Join(".", fmt.Sprintf("stovbot-%s-%d.db", date, i))
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
