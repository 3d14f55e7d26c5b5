package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// add command flags
	addCategory string
	addPattern  string
	addTags     []string
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(reinforceCmd)

	addCmd.Flags().StringVar(&addCategory, "category", "", "Instinct category (required)")
	addCmd.Flags().StringVar(&addPattern, "pattern", "", "Instinct pattern text (required)")
	addCmd.Flags().StringArrayVar(&addTags, "tag", nil, "Informational tag (repeatable)")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("pattern")
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new instinct",
	Long: `Add a new instinct with the initial confidence of 0.50.

The name must be unique within the store.

Examples:
  instinct add retry-backoff \
    --category code-pattern \
    --pattern "wrap flaky calls in exponential backoff"

  instinct add log-first --category debugging --pattern "read the logs first" --tag triage`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an instinct by id",
	Long: `Remove an instinct by id.

Decayed instincts are never deleted automatically; this is the only way a
record leaves the store.

Examples:
  instinct remove inst-5e9d1c2a-...`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var reinforceCmd = &cobra.Command{
	Use:   "reinforce <id>",
	Short: "Record a successful use of an instinct",
	Long: `Record a successful use of an instinct: confidence rises by 0.05
(capped at 0.95), the decay clock resets, and the use count increments.

Examples:
  instinct reinforce inst-5e9d1c2a-...`,
	Args: cobra.ExactArgs(1),
	RunE: runReinforce,
}

func runAdd(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	rec, err := env.store.Add(env.opContext(cmd), args[0], addCategory, addPattern, addTags...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) at confidence %.2f\n",
		rec.Name, rec.ID, rec.Confidence)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	if err := env.store.Remove(env.opContext(cmd), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runReinforce(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	rec, err := env.store.Reinforce(env.opContext(cmd), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "reinforced %s: confidence %.2f, %d uses\n",
		rec.Name, rec.Confidence, rec.UseCount)
	return nil
}
