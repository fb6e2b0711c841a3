package commands

import (
	"context"
	"fmt"
	"os"

	"go-job-trend-analyzer/internal/app"
	"go-job-trend-analyzer/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "jobtrends",
	Short:         "jobtrends scrapes job listings and reports on hiring trends.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default $CONFIG_PATH or configs/config.yaml)")
}

func loadApp() (*app.App, error) {
	return app.Load(config.Path(configPath))
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
