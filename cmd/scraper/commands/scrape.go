package commands

import (
	"context"
	"fmt"
	"io"

	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/pipeline"
	"go-job-trend-analyzer/internal/scraper"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeFlags struct {
	term     string
	location string
	pages    int
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeFlags.term, "term", "t", "", "job title to search for (default from config)")
	scrapeCmd.Flags().StringVarP(&scrapeFlags.location, "location", "l", "", "location filter")
	scrapeCmd.Flags().IntVarP(&scrapeFlags.pages, "pages", "p", 0, fmt.Sprintf("pages to scrape per site, 1..%d (default from config)", config.MaxPages))
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes Indeed and LinkedIn and appends the listings to the data file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Log.Sync() }()

		q := scraper.Query{
			Term:     a.Config.Search.Term,
			Location: scrapeFlags.location,
			Pages:    a.Config.Search.Pages,
		}
		if scrapeFlags.term != "" {
			q.Term = scrapeFlags.term
		}
		if !cmd.Flags().Changed("location") {
			q.Location = a.Config.Search.Location
		}
		if scrapeFlags.pages != 0 {
			q.Pages = scrapeFlags.pages
		}
		if q.Pages < 1 || q.Pages > config.MaxPages {
			return fmt.Errorf("--pages must be between 1 and %d", config.MaxPages)
		}

		stopNotice := noticeOnInterrupt(cmd.Context(), cmd.ErrOrStderr())
		res, err := a.Pipeline.Scrape(cmd.Context(), q)
		stopNotice()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message)
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.AppendHeader(table.Row{"Source", "Listings", "Error"})
		for _, s := range res.Sources {
			t.AppendRow(table.Row{s.Source, s.Count, s.Error})
		}
		t.AppendFooter(table.Row{"Total", res.Total, ""})
		t.SetStyle(table.StyleRounded)
		t.Render()

		if res.Status == pipeline.StatusError {
			return fmt.Errorf("run %s failed", res.RunID)
		}
		return nil
	},
}

const interruptNotice = "Interrupt received: the scrape keeps running and saves what it finds. Press Ctrl-C again to abort."

// noticeOnInterrupt writes interruptNotice to w once ctx is cancelled.
// The returned func stops watching and waits for the watcher to exit.
func noticeOnInterrupt(ctx context.Context, w io.Writer) func() {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			fmt.Fprintln(w, interruptNotice)
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}
