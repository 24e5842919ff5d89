package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ckbaskerville/proper-job-sub000/internal/engine"
	"github.com/ckbaskerville/proper-job-sub000/internal/export"
	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

var (
	populationSize int
	generations    int
	mutationRate   float64
	tournamentSize int
	elitePct       float64
	workers        int
	targetFitness  float64

	pdfOut    string
	xlsxOut   string
	dxfOut    string
	labelsOut string
	jsonOut   bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <parts-file>",
	Short: "Run the genetic layout search over a part list",
	Long: `Read a part list from a CSV or Excel file and search for the
layout that uses the fewest stock sheets.

Example:
  properjob optimize parts.csv --sheet-width 2440 --sheet-height 1220 --margin 3 --pdf layout.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		rects, err := loadParts(args[0], logger)
		if err != nil {
			return err
		}

		cfg := baseConfig()
		cfg.PopulationSize = populationSize
		cfg.Generations = generations
		cfg.MutationRate = mutationRate
		cfg.TournamentSize = tournamentSize
		cfg.ElitePercentage = elitePct
		cfg.Workers = workers
		cfg.TargetFitness = targetFitness

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		opt, err := engine.NewOptimizer(rects, cfg, engine.WithLogger(logger),
			engine.WithProgress(func(p engine.Progress) {
				if p.Phase == engine.PhaseEvolving && p.Generation%10 == 0 {
					logger.Debug("evolving", "generation", p.Generation,
						"best_fitness", p.BestFitness, "best_sheets", p.BestSheets)
				}
			}))
		if err != nil {
			return err
		}

		result, err := opt.Optimize(ctx)
		if err != nil {
			return fmt.Errorf("optimization aborted: %w", err)
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
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().IntVar(&populationSize, "population", 50, "GA population size")
	optimizeCmd.Flags().IntVar(&generations, "generations", 100, "maximum GA generations")
	optimizeCmd.Flags().Float64Var(&mutationRate, "mutation", 0.1, "per-gene mutation probability")
	optimizeCmd.Flags().IntVar(&tournamentSize, "tournament", 3, "tournament selection size")
	optimizeCmd.Flags().Float64Var(&elitePct, "elite", 0.1, "fraction of elites carried over per generation")
	optimizeCmd.Flags().IntVar(&workers, "workers", 1, "parallel fitness evaluation workers")
	optimizeCmd.Flags().Float64Var(&targetFitness, "target-fitness", 0, "stop early at this fitness (0 disables)")

	addOutputFlags(optimizeCmd)
}

// addOutputFlags registers the export destination flags shared by the
// optimize and pack commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "write a PDF layout diagram to this path")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "write an Excel cut list to this path")
	cmd.Flags().StringVar(&dxfOut, "dxf", "", "write a DXF drawing to this path")
	cmd.Flags().StringVar(&labelsOut, "labels", "", "write a QR label sheet PDF to this path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON instead of a summary table")
}

// printResult renders the human-readable run summary.
func printResult(w *os.File, result model.Result) {
	summary := engine.Summarize(result.Sheets)

	fmt.Fprintf(w, "Sheets used:   %d\n", result.SheetsUsed)
	fmt.Fprintf(w, "Parts placed:  %d\n", summary.Parts)
	fmt.Fprintf(w, "Efficiency:    %.1f%%\n", summary.Efficiency*100)
	fmt.Fprintf(w, "Waste:         %.0f mm²\n", summary.Waste)
	fmt.Fprintf(w, "Generations:   %d\n\n", result.Generations)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tPARTS\tEFFICIENCY\tUSED AREA")
	for i, s := range summary.PerSheet {
		fmt.Fprintf(tw, "%d\t%d\t%.1f%%\t%.0f mm²\n", i+1, s.Parts, s.Efficiency*100, s.UsedArea)
	}
	tw.Flush()

	if len(result.Unplaced) > 0 {
		fmt.Fprintf(w, "\nWARNING: %d part(s) could not be placed:\n", len(result.Unplaced))
		for _, u := range result.Unplaced {
			fmt.Fprintf(w, "  - %s (%.0fx%.0f mm): %s\n", u.ID, u.Width, u.Height, u.Reason)
		}
	}
}

// writeOutputs runs every requested export.
func writeOutputs(result model.Result, cfg model.Config, logger *slog.Logger) error {
	if pdfOut != "" {
		if err := export.ExportPDF(pdfOut, result, cfg); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		logger.Info("wrote PDF layout", "path", pdfOut)
	}
	if xlsxOut != "" {
		if err := export.ExportExcel(xlsxOut, result, cfg); err != nil {
			return fmt.Errorf("excel export: %w", err)
		}
		logger.Info("wrote Excel cut list", "path", xlsxOut)
	}
	if dxfOut != "" {
		if err := export.ExportDXF(dxfOut, result); err != nil {
			return fmt.Errorf("dxf export: %w", err)
		}
		logger.Info("wrote DXF drawing", "path", dxfOut)
	}
	if labelsOut != "" {
		if err := export.ExportLabels(labelsOut, result); err != nil {
			return fmt.Errorf("label export: %w", err)
		}
		logger.Info("wrote QR labels", "path", labelsOut)
	}
	return nil
}
