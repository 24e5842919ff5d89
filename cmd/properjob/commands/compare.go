package commands

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ckbaskerville/proper-job-sub000/internal/engine"
)

var (
	comparePopulation  int
	compareGenerations int
)

var compareCmd = &cobra.Command{
	Use:   "compare <parts-file>",
	Short: "Compare what-if parameter scenarios side by side",
	Long: `Run the optimizer once per scenario over the same part list and
print a comparison table. Scenarios are derived from the current
settings: rotation toggled, zero kerf when a margin is set, and an
extended search budget.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		rects, err := loadParts(args[0], logger)
		if err != nil {
			return err
		}

		cfg := baseConfig()
		cfg.PopulationSize = comparePopulation
		cfg.Generations = compareGenerations

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		scenarios := engine.BuildDefaultScenarios(cfg)
		results, err := engine.CompareScenarios(ctx, scenarios, rects)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCENARIO\tSHEETS\tEFFICIENCY\tWASTE\tUNPLACED")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%.1f%%\t%d\n",
				r.Scenario.Name, r.SheetsUsed, r.Efficiency*100, r.WastePercent, r.UnplacedCount)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().IntVar(&comparePopulation, "population", 50, "GA population size per scenario")
	compareCmd.Flags().IntVar(&compareGenerations, "generations", 100, "maximum GA generations per scenario")
}
