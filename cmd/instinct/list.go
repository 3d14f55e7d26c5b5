package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/instinctd/internal/instinct"
)

var (
	// list command flags
	listCategory      string
	listSearch        string
	listMinConfidence float64
	listOutputJSON    bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by exact category")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive substring match on name or pattern")
	listCmd.Flags().Float64Var(&listMinConfidence, "min-confidence", 0, "Only show instincts at or above this confidence")
	listCmd.Flags().BoolVar(&listOutputJSON, "json", false, "Output results as JSON")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List instincts",
	Long: `List instincts, sorted descending by decay-adjusted confidence.

The confidence shown is a read-only projection at the current time; stored
values are never modified by listing.

Examples:
  # List everything
  instinct list

  # Only debugging instincts above 0.7
  instinct list --category debugging --min-confidence 0.7

  # Search names and patterns
  instinct list --search backoff`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	records := env.store.List(env.opContext(cmd), instinct.Filter{
		Category:      listCategory,
		Search:        listSearch,
		MinConfidence: listMinConfidence,
	})

	if listOutputJSON {
		return printJSON(cmd.OutOrStdout(), records)
	}
	renderList(cmd.OutOrStdout(), records)
	return nil
}

// renderList prints a confidence-sorted table of instincts.
func renderList(w io.Writer, records []*instinct.Instinct) {
	if len(records) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no instincts found"))
		return
	}

	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Instincts (%d)", len(records))))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCONFIDENCE\tUSES\tLAST USED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
			r.ID, r.Name, r.ClusterKey(), r.Confidence, r.UseCount,
			r.LastUsed.Format("2006-01-02"))
	}
	tw.Flush()
}

// printJSON writes v as indented JSON with a trailing newline.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
