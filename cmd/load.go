package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/warehouse"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the corpus into a SQL warehouse",
	Long: `Create one table per entity in the configured warehouse and copy every
dataset into it. Tables are created from the entity schemas and loaded in
dependency order using multi-row inserts.

The connection string is read from the environment variable named by
warehouse.url_env (DATABASE_URL by default). Supported providers are
postgresql, mysql and sqlite.`,
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
		drop, _ := cmd.Flags().GetBool("drop")

		dbURL, err := env.cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		adapter, err := database.NewAdapter(env.cfg.Warehouse.Provider)
		if err != nil {
			return err
		}
		if err := adapter.Connect(ctx, dbURL); err != nil {
			return err
		}
		defer adapter.Close()

		if err := adapter.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		loader := warehouse.NewLoader(adapter, env.catalog, env.store, env.cfg.Warehouse.BatchSize, env.logger)
		reports, err := loader.Load(ctx, warehouse.Options{Entities: types, Drop: drop})
		for _, r := range reports {
			color.Green("  ✓ %-22s %9d rows", r.Table, r.Count)
		}
		if err != nil {
			return fmt.Errorf("warehouse load failed: %w", err)
		}
		color.Green("Loaded %d table(s)", len(reports))
		return nil
	},
}

func init() {
	loadCmd.Flags().StringSlice("entities", nil, "entities to load (default all)")
	loadCmd.Flags().Bool("drop", true, "drop and recreate tables before loading")
	rootCmd.AddCommand(loadCmd)
}
