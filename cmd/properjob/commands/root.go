// Package commands wires the properjob CLI: a genetic cut layout
// optimizer for rectangular parts on stock sheets.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ckbaskerville/proper-job-sub000/internal/importer"
	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

var (
	cfgFile string
	verbose bool

	sheetWidth    float64
	sheetHeight   float64
	cuttingMargin float64
	noRotation    bool
	seed          int64
)

var rootCmd = &cobra.Command{
	Use:   "properjob",
	Short: "Cut layout optimizer for rectangular parts",
	Long: `properjob packs rectangular parts onto stock sheets using a
genetic algorithm over part orderings and rotations, minimizing the
number of sheets cut.

Part lists are read from CSV or Excel files with Label, Width, Height,
and Quantity columns. Results can be written as PDF layout diagrams,
Excel cut lists, DXF outlines, and QR part labels.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.properjob.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentFlags().Float64Var(&sheetWidth, "sheet-width", 2440, "stock sheet width in mm")
	rootCmd.PersistentFlags().Float64Var(&sheetHeight, "sheet-height", 1220, "stock sheet height in mm")
	rootCmd.PersistentFlags().Float64Var(&cuttingMargin, "margin", 0, "cutting kerf clearance between parts in mm")
	rootCmd.PersistentFlags().BoolVar(&noRotation, "no-rotation", false, "disallow 90-degree part rotation")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "random seed for reproducible runs")

	viper.BindPFlag("sheet_width", rootCmd.PersistentFlags().Lookup("sheet-width"))
	viper.BindPFlag("sheet_height", rootCmd.PersistentFlags().Lookup("sheet-height"))
	viper.BindPFlag("margin", rootCmd.PersistentFlags().Lookup("margin"))
	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".properjob.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("properjob")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

// newLogger builds the CLI logger. Debug level with --verbose,
// warnings and errors otherwise.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// baseConfig assembles the engine configuration from flags and the
// viper-backed config file.
func baseConfig() model.Config {
	cfg := model.DefaultConfig(viper.GetFloat64("sheet_width"), viper.GetFloat64("sheet_height"))
	cfg.CuttingMargin = viper.GetFloat64("margin")
	cfg.AllowRotation = !noRotation
	cfg.Seed = viper.GetInt64("seed")
	return cfg
}

// loadParts reads a part list file, dispatching on extension, and
// surfaces importer errors and warnings.
func loadParts(path string, logger *slog.Logger) ([]model.Rectangle, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path)
	default:
		return nil, fmt.Errorf("unsupported part list format %q (want .csv or .xlsx)", filepath.Ext(path))
	}

	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			logger.Error(e)
		}
		return nil, fmt.Errorf("part list %s has %d error(s)", path, len(result.Errors))
	}
	if len(result.Rectangles) == 0 {
		return nil, fmt.Errorf("part list %s contains no parts", path)
	}

	logger.Debug("part list loaded", "path", path, "parts", len(result.Rectangles))
	return result.Rectangles, nil
}
