package cmd

import (
	"fmt"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/verify"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check identifiers and references of the corpus",
	Long: `Scan every dataset and report:
- identifiers that occur more than once
- identifiers outside the entity's reserved ID space
- foreign keys that do not resolve to an existing record
- datasets that are missing or cannot be parsed

The command exits with a non-zero status when any violation is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		res, err := verify.Corpus(env.store, env.catalog)
		if err != nil {
			return fmt.Errorf("verification aborted: %w", err)
		}

		fmt.Println()
		for _, d := range env.catalog.All() {
			fmt.Printf("  %-16s %10d rows\n", d.Type(), res.Rows[d.Type()])
		}
		fmt.Println()

		if res.OK() {
			color.Green("✓ Corpus is consistent")
			return nil
		}

		for _, v := range res.Violations {
			color.Red("  ✗ %s", v)
		}
		return fmt.Errorf("%d violation(s) found", len(res.Violations))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
