package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// export/import command flags
	exportFile  string
	importMerge bool
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	exportCmd.Flags().StringVar(&exportFile, "file", "instincts-export.json", "Export file path")
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "Merge colliding names (weighted average) instead of skipping")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store to a JSON snapshot",
	Long: `Export the full store (raw stored confidences, no decay projection)
as pretty-printed JSON.

Examples:
  instinct export
  instinct export --file /tmp/snapshot.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import instincts from a JSON snapshot",
	Long: `Import records from a JSON array. Imported confidence is discounted
by 20% (floored at 0.10) because patterns learned elsewhere start less
trusted here.

Records whose name already exists locally are skipped by default. With
--merge the local confidence instead becomes a weighted average leaning
toward the higher value, and tags are unioned.

Examples:
  instinct import team-instincts.json
  instinct import team-instincts.json --merge`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	if err := env.store.Export(env.opContext(cmd), exportFile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported %d instincts to %s\n",
		env.store.Len(), exportFile)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	merge := importMerge || env.cfg.Import.Merge
	report, err := env.store.Import(env.opContext(cmd), args[0], merge)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if merge {
		fmt.Fprintf(out, "imported %d, merged %d\n", report.Added, report.Merged)
	} else {
		fmt.Fprintf(out, "imported %d, skipped %d\n", report.Added, report.Skipped)
	}
	for name, fields := range report.Defaulted {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  %s: defaulted %v", name, fields)))
	}
	return nil
}
