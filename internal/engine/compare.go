package engine

import (
	"context"
	"fmt"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

// ComparisonScenario defines a named configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config model.Config
}

// ComparisonResult holds the optimization outcome and summary numbers
// for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.Result
	SheetsUsed    int
	Efficiency    float64
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios runs the optimizer once per scenario over the same
// rectangles, enabling side-by-side comparison of parameter choices.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, rects []model.Rectangle) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt, err := NewOptimizer(rects, scenario.Config)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		result, err := opt.Optimize(ctx)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		eff := result.TotalEfficiency()
		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			SheetsUsed:    result.SheetsUsed,
			Efficiency:    eff,
			WastePercent:  (1 - eff) * 100,
			UnplacedCount: len(result.Unplaced),
		})
	}

	return results, nil
}

// BuildDefaultScenarios derives what-if variants from a base config:
// rotation toggled, zero kerf, and a larger search budget.
func BuildDefaultScenarios(base model.Config) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Config: base},
	}

	rot := base
	rot.AllowRotation = !base.AllowRotation
	if rot.AllowRotation {
		scenarios = append(scenarios, ComparisonScenario{Name: "Rotation Allowed", Config: rot})
	} else {
		scenarios = append(scenarios, ComparisonScenario{Name: "Rotation Disabled", Config: rot})
	}

	if base.CuttingMargin > 0 {
		noKerf := base
		noKerf.CuttingMargin = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Kerf", Config: noKerf})
	}

	big := base
	big.PopulationSize = base.PopulationSize * 2
	big.Generations = base.Generations * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("Extended Search (%d gen)", big.Generations),
		Config: big,
	})

	return scenarios
}
