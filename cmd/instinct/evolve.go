package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/instinctd/internal/instinct"
)

var (
	// evolve/status command flags
	evolveOutputJSON bool
	statusOutputJSON bool
)

func init() {
	rootCmd.AddCommand(evolveCmd)
	rootCmd.AddCommand(statusCmd)

	evolveCmd.Flags().BoolVar(&evolveOutputJSON, "json", false, "Output report as JSON")
	statusCmd.Flags().BoolVar(&statusOutputJSON, "json", false, "Output report as JSON")
}

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Report category clusters ready to become skills",
	Long: `Group instincts by category and report which clusters are ready for
promotion into a formal skill: at least 3 members with a mean
decay-adjusted confidence of 0.70 or higher.

The report is read-only: no instinct is modified or removed and no skill
file is generated.

Examples:
  instinct evolve
  instinct evolve --json`,
	Args: cobra.NoArgs,
	RunE: runEvolve,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the store",
	Long: `Print summary statistics over the decay-adjusted collection: totals,
mean confidence, high/low confidence bands, and a per-category breakdown.

Examples:
  instinct status
  instinct status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runEvolve(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	report := env.store.Evolve(env.opContext(cmd))

	if evolveOutputJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}
	renderEvolve(cmd.OutOrStdout(), report)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	report := env.store.Status(env.opContext(cmd))

	if statusOutputJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}
	renderStatus(cmd.OutOrStdout(), report)
	return nil
}

// renderEvolve prints every cluster with its members and readiness.
func renderEvolve(w io.Writer, report *instinct.EvolveReport) {
	if len(report.Clusters) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no instincts to cluster"))
		return
	}

	for _, c := range report.Clusters {
		header := fmt.Sprintf("%s (%d members, avg %.2f)",
			c.Category, len(c.Members), c.AvgConfidence)
		if c.Ready {
			fmt.Fprintf(w, "%s %s\n", sectionStyle.Render(header), readyStyle.Render("READY"))
		} else {
			fmt.Fprintf(w, "%s %s\n", sectionStyle.Render(header), dimStyle.Render("not ready"))
		}
		for _, m := range c.Members {
			fmt.Fprintf(w, "  %.2f  %s (%s)\n", m.Confidence, m.Name, m.ID)
		}
	}

	fmt.Fprintf(w, "\n%d of %d clusters ready for skill promotion\n",
		report.ReadyCount, len(report.Clusters))
}

// renderStatus prints summary statistics.
func renderStatus(w io.Writer, report *instinct.StatusReport) {
	fmt.Fprintln(w, sectionStyle.Render("Instinct store status"))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "total\t%d\n", report.Total)
	fmt.Fprintf(tw, "mean confidence\t%.2f\n", report.MeanConfidence)
	fmt.Fprintf(tw, "high confidence (>= 0.70)\t%d\n", report.HighConfidence)
	lowCount := fmt.Sprintf("%d", report.LowConfidence)
	if report.LowConfidence > 0 {
		lowCount = warningStyle.Render(lowCount)
	}
	fmt.Fprintf(tw, "low confidence (< 0.30)\t%s\n", lowCount)
	tw.Flush()

	if len(report.ByCategory) == 0 {
		return
	}

	categories := make([]string, 0, len(report.ByCategory))
	for c := range report.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Fprintln(w, sectionStyle.Render("By category"))
	ctw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range categories {
		fmt.Fprintf(ctw, "%s\t%d\n", c, report.ByCategory[c])
	}
	ctw.Flush()
}
