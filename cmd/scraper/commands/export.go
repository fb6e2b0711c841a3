package commands

import (
	"fmt"
	"os"

	"go-job-trend-analyzer/internal/storage"

	"github.com/spf13/cobra"
)

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "jobs_data.xlsx", "spreadsheet to write")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports the collected listings to an .xlsx spreadsheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Log.Sync() }()

		c, err := a.Store.Load()
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := storage.ExportXLSX(c, f); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d listings to %s\n", c.Len(), exportOut)
		return nil
	},
}
