package commands

import (
	"fmt"
	"io"

	"go-job-trend-analyzer/internal/insights"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var reportTitle string

func init() {
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "show the skill breakdown for this job title")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Prints the trend summary of the collected listings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Log.Sync() }()

		snap := a.Loader.Snapshot()
		if snap.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error loading data: %v\n", snap.Err)
		}
		if snap.Collection.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No job data available. Run `jobtrends scrape` first.")
			return nil
		}

		ins := insights.Build(snap.Collection)
		title := reportTitle
		if title == "" && len(ins.SkillTitles) > 0 {
			title = ins.SkillTitles[0]
		}
		renderReport(cmd.OutOrStdout(), ins, title, insights.SkillsForTitle(snap.Collection, title, insights.SkillsPerTitleLimit))
		return nil
	},
}

func renderReport(w io.Writer, ins insights.Insights, title string, titleSkills []insights.Count) {
	p := message.NewPrinter(language.English)

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetTitle("Summary")
	summary.AppendHeader(table.Row{"Total Jobs", "Unique Companies", "Locations", "Primary Source"})
	summary.AppendRow(table.Row{
		p.Sprintf("%d", ins.Summary.Total),
		p.Sprintf("%d", ins.Summary.UniqueCompanies),
		p.Sprintf("%d", ins.Summary.UniqueLocations),
		ins.Summary.PrimarySource,
	})
	summary.SetStyle(table.StyleRounded)
	summary.Render()

	countTable(w, p, "Top Job Titles", "Title", ins.TopTitles)
	countTable(w, p, "Top Required Skills", "Skill", ins.TopSkills)
	if title != "" {
		countTable(w, p, "Skills for "+title, "Skill", titleSkills)
	}
	countTable(w, p, "Job Locations", "Location", ins.TopLocations)
	countTable(w, p, "Source Distribution", "Source", ins.Sources)

	days := table.NewWriter()
	days.SetOutputMirror(w)
	days.SetTitle("Posting Trends Over Time")
	days.AppendHeader(table.Row{"Date", "Count"})
	for _, d := range ins.PostingsPerDay {
		days.AppendRow(table.Row{d.Date.Format("2006-01-02"), p.Sprintf("%d", d.Count)})
	}
	if len(ins.PostingsPerDay) == 0 {
		days.AppendRow(table.Row{"no parsed dates", ""})
	}
	days.SetStyle(table.StyleRounded)
	days.Render()
}

func countTable(w io.Writer, p *message.Printer, title, label string, counts []insights.Count) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", label, "Count"})
	for i, c := range counts {
		t.AppendRow(table.Row{i + 1, c.Value, p.Sprintf("%d", c.Count)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
