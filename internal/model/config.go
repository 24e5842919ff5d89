package model

import "fmt"

// Config holds the sheet dimensions and genetic algorithm parameters
// for one optimization run. Values are validated once at optimizer
// construction and never silently clamped.
type Config struct {
	SheetWidth  float64 `json:"sheet_width"`  // mm
	SheetHeight float64 `json:"sheet_height"` // mm

	PopulationSize  int     `json:"population_size"`
	Generations     int     `json:"generations"`
	MutationRate    float64 `json:"mutation_rate"`
	TournamentSize  int     `json:"tournament_size"`
	ElitePercentage float64 `json:"elite_percentage"`

	// AllowRotation permits 90-degree rotation of parts.
	AllowRotation bool `json:"allow_rotation"`

	// CuttingMargin is the kerf clearance kept between placements, in mm.
	CuttingMargin float64 `json:"cutting_margin"`

	// TieBreakWeight scales the efficiency term added to the sheet count
	// in fitness. Must stay below 1 so the term can never push a solution
	// across an integer sheet boundary.
	TieBreakWeight float64 `json:"tie_break_weight"`

	// TargetFitness stops evolution early when reached. Zero disables it.
	TargetFitness float64 `json:"target_fitness"`

	// Workers bounds parallel fitness evaluation per generation.
	// Values below 2 evaluate sequentially.
	Workers int `json:"workers"`

	// Seed initializes the engine's random source for reproducible runs.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns sensible GA parameters for the given sheet size.
func DefaultConfig(sheetWidth, sheetHeight float64) Config {
	return Config{
		SheetWidth:      sheetWidth,
		SheetHeight:     sheetHeight,
		PopulationSize:  50,
		Generations:     100,
		MutationRate:    0.1,
		TournamentSize:  3,
		ElitePercentage: 0.1,
		AllowRotation:   true,
		CuttingMargin:   0,
		TieBreakWeight:  0.1,
		Workers:         1,
		Seed:            42,
	}
}

// Validate checks all parameters and returns a descriptive error for
// the first violation found.
func (c Config) Validate() error {
	if c.SheetWidth <= 0 || c.SheetHeight <= 0 {
		return fmt.Errorf("invalid config: sheet dimensions must be positive, got %gx%g", c.SheetWidth, c.SheetHeight)
	}
	if c.PopulationSize < 2 {
		return fmt.Errorf("invalid config: population size must be at least 2, got %d", c.PopulationSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("invalid config: generations must be at least 1, got %d", c.Generations)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("invalid config: mutation rate must be in [0,1], got %g", c.MutationRate)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("invalid config: tournament size must be at least 1, got %d", c.TournamentSize)
	}
	if c.ElitePercentage < 0 || c.ElitePercentage > 1 {
		return fmt.Errorf("invalid config: elite percentage must be in [0,1], got %g", c.ElitePercentage)
	}
	if c.CuttingMargin < 0 {
		return fmt.Errorf("invalid config: cutting margin must be non-negative, got %g", c.CuttingMargin)
	}
	if c.TieBreakWeight < 0 || c.TieBreakWeight >= 1 {
		return fmt.Errorf("invalid config: tie-break weight must be in [0,1), got %g", c.TieBreakWeight)
	}
	return nil
}
