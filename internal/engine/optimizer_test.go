package engine

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

func testConfig(sheetWidth, sheetHeight float64) model.Config {
	cfg := model.DefaultConfig(sheetWidth, sheetHeight)
	cfg.PopulationSize = 20
	cfg.Generations = 30
	return cfg
}

func TestNewOptimizer_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(1000, 500)
	cfg.PopulationSize = 1

	_, err := NewOptimizer([]model.Rectangle{rect("a", 100, 100)}, cfg)
	assert.Error(t, err)
}

func TestNewOptimizer_RejectsInvalidRectangle(t *testing.T) {
	cfg := testConfig(1000, 500)

	_, err := NewOptimizer([]model.Rectangle{rect("bad", 0, 100)}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestNewOptimizer_ExcludesOversizedParts(t *testing.T) {
	cfg := testConfig(1000, 500)
	cfg.AllowRotation = false

	opt, err := NewOptimizer([]model.Rectangle{
		rect("fits", 400, 300),
		rect("huge", 3000, 2000),
	}, cfg)
	require.NoError(t, err)

	unfit := opt.Unfit()
	require.Len(t, unfit, 1)
	assert.Equal(t, "huge", unfit[0].ID)
	assert.Contains(t, unfit[0].Reason, "exceeds sheet")

	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "huge", result.Unplaced[0].ID)
	assert.Equal(t, 1, result.PlacedCount(), "the fitting part is still optimized")
}

func TestNewOptimizer_RotationRescuesOversizedPart(t *testing.T) {
	cfg := testConfig(1000, 500)
	cfg.AllowRotation = true

	// 400x900 only fits rotated.
	opt, err := NewOptimizer([]model.Rectangle{rect("tall", 400, 900)}, cfg)
	require.NoError(t, err)
	assert.Empty(t, opt.Unfit())
}

func TestOptimize_EmptyInput(t *testing.T) {
	opt, err := NewOptimizer(nil, testConfig(1000, 500))
	require.NoError(t, err)

	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.SheetsUsed)
	assert.Empty(t, result.Sheets)
	assert.Equal(t, PhaseDone, opt.Phase())
}

func TestOptimize_TrivialQuadrantsConvergeToOneSheet(t *testing.T) {
	cfg := model.DefaultConfig(600, 600)
	cfg.PopulationSize = 10
	cfg.Generations = 10

	rects := []model.Rectangle{
		rect("q1", 300, 300), rect("q2", 300, 300),
		rect("q3", 300, 300), rect("q4", 300, 300),
	}

	opt, err := NewOptimizer(rects, cfg)
	require.NoError(t, err)
	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.SheetsUsed)
	assert.Empty(t, result.Unplaced)
	assert.Equal(t, 4, result.PlacedCount())
	assert.InDelta(t, 1.0, result.TotalEfficiency(), 1e-9)
}

func TestOptimize_SixPanelRegression(t *testing.T) {
	// Six panels whose total area exceeds one 1220x2440 sheet but packs
	// into two. The optimizer must find the two-sheet layout.
	cfg := testConfig(1220, 2440)

	rects := []model.Rectangle{
		rect("#1", 1000, 500), rect("#2", 1000, 500),
		rect("#3", 1000, 700), rect("#4", 1000, 700),
		rect("#5", 700, 500), rect("#6", 700, 500),
	}

	opt, err := NewOptimizer(rects, cfg)
	require.NoError(t, err)
	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.SheetsUsed)
	assert.Empty(t, result.Unplaced)
	assert.Equal(t, 6, result.PlacedCount())
	assert.Empty(t, ValidateLayout(result.Sheets))
	assert.Empty(t, CheckConservation(rects, result.Sheets, result.Unplaced))
}

func TestOptimize_BestFitnessNeverRegresses(t *testing.T) {
	cfg := testConfig(1220, 2440)
	rects := []model.Rectangle{
		rect("p1", 600, 400), rect("p2", 300, 700), rect("p3", 450, 450),
		rect("p4", 800, 200), rect("p5", 350, 350), rect("p6", 900, 600),
		rect("p7", 1200, 300), rect("p8", 150, 150), rect("p9", 500, 500),
	}

	var fitnesses []float64
	opt, err := NewOptimizer(rects, cfg, WithProgress(func(p Progress) {
		if p.Phase == PhaseEvolving && p.Generation > 0 {
			fitnesses = append(fitnesses, p.BestFitness)
		}
	}))
	require.NoError(t, err)

	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, fitnesses)
	for i := 1; i < len(fitnesses); i++ {
		assert.LessOrEqual(t, fitnesses[i], fitnesses[i-1], "best-ever fitness must be monotonic")
	}
	assert.Equal(t, fitnesses[len(fitnesses)-1], result.BestFitness)
}

func TestOptimize_DeterministicForSameSeed(t *testing.T) {
	rects := []model.Rectangle{
		rect("p1", 600, 400), rect("p2", 300, 700), rect("p3", 450, 450),
		rect("p4", 800, 200), rect("p5", 350, 350), rect("p6", 900, 600),
	}

	run := func() model.Result {
		cfg := testConfig(1220, 2440)
		cfg.Seed = 99
		opt, err := NewOptimizer(rects, cfg)
		require.NoError(t, err)
		result, err := opt.Optimize(context.Background())
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()
	assert.True(t, reflect.DeepEqual(first, second), "same seed must reproduce the same result")
}

func TestOptimize_ParallelEvaluationMatchesSequential(t *testing.T) {
	rects := []model.Rectangle{
		rect("p1", 600, 400), rect("p2", 300, 700), rect("p3", 450, 450),
		rect("p4", 800, 200), rect("p5", 350, 350), rect("p6", 900, 600),
	}

	run := func(workers int) model.Result {
		cfg := testConfig(1220, 2440)
		cfg.Workers = workers
		opt, err := NewOptimizer(rects, cfg)
		require.NoError(t, err)
		result, err := opt.Optimize(context.Background())
		require.NoError(t, err)
		return result
	}

	assert.True(t, reflect.DeepEqual(run(1), run(8)),
		"worker count must not change the search outcome")
}

func TestOptimize_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt, err := NewOptimizer([]model.Rectangle{rect("a", 100, 100)}, testConfig(1000, 500))
	require.NoError(t, err)

	_, err = opt.Optimize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptimize_TargetFitnessStopsEarly(t *testing.T) {
	cfg := model.DefaultConfig(600, 600)
	cfg.PopulationSize = 10
	cfg.Generations = 100
	cfg.TargetFitness = 2.0

	rects := []model.Rectangle{rect("a", 300, 300), rect("b", 300, 300)}

	opt, err := NewOptimizer(rects, cfg)
	require.NoError(t, err)
	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generations, "target reached after the first generation")
	assert.Equal(t, 1, result.SheetsUsed)
}

func TestOptimize_StagnationStopsBeforeBudget(t *testing.T) {
	cfg := model.DefaultConfig(600, 600)
	cfg.PopulationSize = 10
	cfg.Generations = 200

	rects := []model.Rectangle{rect("a", 300, 300), rect("b", 300, 300)}

	opt, err := NewOptimizer(rects, cfg)
	require.NoError(t, err)
	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)

	assert.Less(t, result.Generations, 200, "a solved instance must stop on stagnation")
}

func TestOptimize_RotationFlagsMatchOriginalOrientation(t *testing.T) {
	cfg := testConfig(1220, 2440)
	rects := []model.Rectangle{
		rect("p1", 600, 400), rect("p2", 300, 700), rect("p3", 450, 450),
		rect("p4", 800, 200), rect("p5", 350, 350),
	}
	byID := make(map[string]model.Rectangle)
	for _, r := range rects {
		byID[r.ID] = r
	}

	opt, err := NewOptimizer(rects, cfg)
	require.NoError(t, err)
	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)

	for _, sheet := range result.Sheets {
		for _, p := range sheet.Placements {
			orig := byID[p.ID]
			if p.Rotated {
				assert.Equal(t, orig.Height, p.Width, "rotated placement %q", p.ID)
				assert.Equal(t, orig.Width, p.Height, "rotated placement %q", p.ID)
			} else {
				assert.Equal(t, orig.Width, p.Width, "placement %q", p.ID)
				assert.Equal(t, orig.Height, p.Height, "placement %q", p.ID)
			}
		}
	}
}

func TestOptimize_FitnessTieBreakStaysBelowOneSheet(t *testing.T) {
	cfg := testConfig(1220, 2440)
	rects := []model.Rectangle{rect("p1", 600, 400), rect("p2", 300, 700)}

	opt, err := NewOptimizer(rects, cfg)
	require.NoError(t, err)
	result, err := opt.Optimize(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.BestFitness, float64(result.SheetsUsed))
	assert.Less(t, result.BestFitness, float64(result.SheetsUsed)+1)
}

func TestPack_FixedOrderSingleSheet(t *testing.T) {
	sheets, unplaced, err := Pack([]model.Rectangle{
		rect("a", 500, 500), rect("b", 500, 500),
	}, 1000, 500, false, 0)

	require.NoError(t, err)
	assert.Empty(t, unplaced)
	require.Len(t, sheets, 1)
	assert.Len(t, sheets[0].Placements, 2)
}

func TestPack_ReportsOversizedParts(t *testing.T) {
	sheets, unplaced, err := Pack([]model.Rectangle{
		rect("huge", 5000, 5000),
	}, 1000, 500, true, 0)

	require.NoError(t, err)
	assert.Empty(t, sheets)
	require.Len(t, unplaced, 1)
	assert.Contains(t, unplaced[0].Reason, "exceeds sheet")
}

func TestPack_RejectsInvalidInput(t *testing.T) {
	_, _, err := Pack([]model.Rectangle{rect("a", 100, 100)}, 0, 500, false, 0)
	assert.Error(t, err)

	_, _, err = Pack([]model.Rectangle{rect("a", 100, 100)}, 1000, 500, false, -1)
	assert.Error(t, err)

	_, _, err = Pack([]model.Rectangle{rect("bad", -5, 100)}, 1000, 500, false, 0)
	assert.Error(t, err)
}
