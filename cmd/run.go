package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/gate"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/generator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Keep every dataset growing",
	Long: `Start one continuous generator per entity.

The command first waits for the readiness marker written by a completed
bulk run, polling every poll_interval. Each generator then loops forever:
it snapshots the identifiers of its dependencies, allocates the next
block of IDs, synthesizes a batch of random size and appends it to its
dataset, then sleeps a random time within its configured window.

Batch sizes and sleep windows are configured per entity, for example
MIN_BATCH_ACCOUNTS, MAX_BATCH_ACCOUNTS, MIN_SLEEP_TIME_ACCOUNTS and
MAX_SLEEP_TIME_ACCOUNTS.

Stop with Ctrl+C; every generator finishes its current step and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		names, _ := cmd.Flags().GetStringSlice("entities")
		types, err := parseEntities(names)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		skipWait, _ := cmd.Flags().GetBool("skip-wait")
		if !skipWait {
			marker := gate.NewMarker(env.cfg.MarkerFile)
			if err := marker.Wait(ctx, env.cfg.PollInterval, env.logger); err != nil {
				if errors.Is(err, context.Canceled) {
					color.Yellow("Interrupted while waiting for the initial corpus")
					return nil
				}
				return fmt.Errorf("failed waiting for readiness marker: %w", err)
			}
		}

		color.Cyan("Starting continuous generation")
		runner := generator.NewRunner(env.cfg, env.catalog, env.store, env.logger)
		if err := runner.Run(ctx, types); err != nil {
			return err
		}
		color.Green("Continuous generation stopped")
		return nil
	},
}

func init() {
	runCmd.Flags().StringSlice("entities", nil, "entities to generate (default all)")
	runCmd.Flags().Bool("skip-wait", false, "do not wait for the readiness marker")
	rootCmd.AddCommand(runCmd)
}
