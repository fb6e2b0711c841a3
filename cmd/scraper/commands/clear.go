package commands

import (
	"fmt"

	"go-job-trend-analyzer/internal/pipeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Deletes the collected data file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Log.Sync() }()

		res, err := a.Pipeline.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		if res.Status == pipeline.StatusError {
			return fmt.Errorf("clear failed")
		}
		return nil
	},
}
