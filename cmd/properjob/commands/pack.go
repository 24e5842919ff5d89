package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ckbaskerville/proper-job-sub000/internal/engine"
	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

var packCmd = &cobra.Command{
	Use:   "pack <parts-file>",
	Short: "Pack parts in file order without searching",
	Long: `Run a single deterministic bottom-left-fill pass over the parts in
the order they appear in the file. No genetic search is performed, so
the layout is reproducible and instant, at the cost of using more
sheets than an optimized ordering might.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		rects, err := loadParts(args[0], logger)
		if err != nil {
			return err
		}

		cfg := baseConfig()
		sheets, unplaced, err := engine.Pack(rects, cfg.SheetWidth, cfg.SheetHeight,
			cfg.AllowRotation, cfg.CuttingMargin)
		if err != nil {
			return err
		}

		result := model.Result{
			SheetsUsed: len(sheets),
			Sheets:     sheets,
			Unplaced:   unplaced,
		}

		if issues := engine.ValidateLayout(sheets); len(issues) > 0 {
			for _, issue := range issues {
				logger.Error("layout invariant violated", "issue", issue.String())
			}
			return fmt.Errorf("packing produced an invalid layout")
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			printResult(os.Stdout, result)
		}

		return writeOutputs(result, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	addOutputFlags(packCmd)
}
