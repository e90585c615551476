package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/gate"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/pipeline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Generate the initial corpus",
	Long: `Generate the initial dataset of every entity.

Entities are produced stage by stage in dependency order: customers and
branches first, then everything that references customers, then
transactions. Each entity is written in shards of chunk_size rows and
merged into its canonical CSV file. Entities that already hold data are
skipped, so an interrupted run can simply be started again.

The readiness marker is written only when every dataset is present.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		marker := gate.NewMarker(env.cfg.MarkerFile)
		p := pipeline.New(env.cfg, env.catalog, env.store, marker, env.logger)

		start := time.Now()
		report, runErr := p.Run(ctx)
		if report != nil {
			printBulkReport(report, time.Since(start))
		}
		if runErr != nil {
			return fmt.Errorf("bulk generation failed: %w", runErr)
		}
		return nil
	},
}

func printBulkReport(report *pipeline.Report, elapsed time.Duration) {
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Printf("Bulk run %s\n", report.RunID)
	fmt.Println()

	for _, e := range report.Entities {
		switch e.Status {
		case pipeline.StatusGenerated:
			color.Green("  ✓ %-16s %9d rows  %3d shards  %s", e.Type, e.Rows, e.Shards, e.Duration.Round(time.Millisecond))
		case pipeline.StatusSkipped:
			color.Yellow("  - %-16s skipped (dataset present)", e.Type)
		default:
			color.Red("  ✗ %-16s %v", e.Type, e.Err)
		}
	}

	fmt.Println()
	if len(report.Missing) > 0 {
		color.Red("Missing datasets: %v", report.Missing)
		color.Red("Readiness marker not written")
		return
	}
	if report.MarkerWritten {
		color.Green("Corpus ready in %s", elapsed.Round(time.Millisecond))
	} else {
		color.Green("Corpus already marked ready")
	}
}

func init() {
	bulkCmd.Flags().Int("scale-factor", 0, "multiplier applied to num_customer")
	bulkCmd.Flags().Int("num-customer", 0, "base customer count")
	bulkCmd.Flags().Int("chunk-size", 0, "rows per shard")
	bulkCmd.Flags().Int("workers", 0, "parallel entities per stage (0 = number of CPUs)")
	bulkCmd.Flags().Uint64("seed", 0, "base random seed")

	bindChangedFlags(bulkCmd, map[string]string{
		"scale-factor": "scale_factor",
		"num-customer": "num_customer",
		"chunk-size":   "chunk_size",
		"workers":      "workers",
		"seed":         "seed",
	})

	rootCmd.AddCommand(bulkCmd)
}

// bindChangedFlags copies flags the user actually set into viper before the
// command runs, so unset flags never shadow config or environment values.
func bindChangedFlags(c *cobra.Command, keys map[string]string) {
	prev := c.PreRunE
	c.PreRunE = func(cmd *cobra.Command, args []string) error {
		for flag, key := range keys {
			f := cmd.Flags().Lookup(flag)
			if f != nil && f.Changed {
				viper.Set(key, f.Value.String())
			}
		}
		if prev != nil {
			return prev(cmd, args)
		}
		return nil
	}
}
