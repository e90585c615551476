package cmd

import (
	"errors"
	"fmt"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/gate"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every dataset",
	Long: `Show the current state of the corpus including:
- Row count of every dataset
- Lowest and highest identifier
- How much of the reserved ID space is used
- Whether the readiness marker has been written`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		marker := gate.NewMarker(env.cfg.MarkerFile)
		ready, err := marker.Ready()
		if err != nil {
			return err
		}

		fmt.Println()
		color.New(color.FgCyan, color.Bold).Printf("%-16s %10s %12s %12s %8s\n", "ENTITY", "ROWS", "MIN ID", "MAX ID", "USED")
		for _, d := range env.catalog.All() {
			stats, err := env.store.Dataset(d).Stats()
			switch {
			case errors.Is(err, store.ErrDatasetNotFound):
				color.Yellow("%-16s %10s", d.Type(), "missing")
				continue
			case err != nil:
				color.Red("%-16s %v", d.Type(), err)
				continue
			case stats.Rows == 0:
				color.Yellow("%-16s %10d", d.Type(), 0)
				continue
			}

			space := d.IDSpace()
			used := float64(stats.MaxID-space.Base+1) / float64(space.Capacity) * 100
			fmt.Printf("%-16s %10d %12d %12d %7.2f%%\n", d.Type(), stats.Rows, stats.MinID, stats.MaxID, used)
		}

		fmt.Println()
		if ready {
			color.Green("Readiness marker: present (%s)", marker.Path())
		} else {
			color.Yellow("Readiness marker: absent (%s)", marker.Path())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
