package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

// Phase describes where the optimizer is in its run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitializing
	PhaseEvolving
	PhaseConverged
	PhaseFinalizing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseEvolving:
		return "evolving"
	case PhaseConverged:
		return "converged"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseDone:
		return "done"
	default:
		return "idle"
	}
}

// Progress is a snapshot delivered to the progress callback once per
// generation and on phase transitions.
type Progress struct {
	Phase       Phase
	Generation  int
	BestFitness float64
	BestSheets  int
}

// ProgressFunc receives progress snapshots during Optimize.
type ProgressFunc func(Progress)

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger attaches a structured logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress attaches a per-generation progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Optimizer) { o.onProgress = fn }
}

// WithRand overrides the seeded random source from the config.
func WithRand(rng *rand.Rand) Option {
	return func(o *Optimizer) { o.rng = rng }
}

// Optimizer binds a fixed rectangle set, sheet dimensions, and GA
// configuration to a bin packer using the Bottom-Left Fill strategy.
// One Optimize call owns the engine and packer exclusively; rectangles
// are borrowed read-only from the caller.
type Optimizer struct {
	cfg    model.Config
	rects  []model.Rectangle
	unfit  []model.UnplacedRectangle
	packer *BinPacker
	rng    *rand.Rand
	logger *slog.Logger

	onProgress ProgressFunc
	phase      Phase
}

// NewOptimizer validates the configuration and rectangles, partitions
// off parts that cannot fit the sheet in either orientation, and
// prepares the engine. Configuration errors abort before any
// optimization work happens.
func NewOptimizer(rects []model.Rectangle, cfg model.Config, opts ...Option) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy := NewBottomLeftFill(cfg.SheetWidth, cfg.SheetHeight, cfg.AllowRotation, cfg.CuttingMargin)

	o := &Optimizer{
		cfg:    cfg,
		packer: NewBinPacker(strategy),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: slog.New(slog.DiscardHandler),
		phase:  PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}

	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			return nil, fmt.Errorf("invalid rectangle %q: dimensions must be positive, got %gx%g", r.ID, r.Width, r.Height)
		}
		if !strategy.FitsSheet(r) {
			o.unfit = append(o.unfit, model.UnplacedRectangle{
				ID:     r.ID,
				Width:  r.Width,
				Height: r.Height,
				Reason: fmt.Sprintf("exceeds sheet %gx%g in every permitted orientation", cfg.SheetWidth, cfg.SheetHeight),
			})
			o.logger.Warn("part exceeds sheet, excluded from optimization",
				"id", r.ID, "width", r.Width, "height", r.Height)
			continue
		}
		o.rects = append(o.rects, r)
	}

	return o, nil
}

// Phase returns the optimizer's current phase.
func (o *Optimizer) Phase() Phase {
	return o.phase
}

// Unfit returns the rectangles excluded because they cannot fit the
// configured sheet at all. Available before Optimize runs.
func (o *Optimizer) Unfit() []model.UnplacedRectangle {
	return o.unfit
}

// Optimize runs the genetic search and returns the best layout found.
// The context is checked at least once per generation; cancellation
// returns the context error with no partial result.
func (o *Optimizer) Optimize(ctx context.Context) (model.Result, error) {
	if len(o.rects) == 0 {
		o.phase = PhaseDone
		return model.Result{Unplaced: o.unfit}, nil
	}

	o.setPhase(PhaseInitializing, 0, nil)
	pop := o.initialPopulation()
	pop.evaluateAll(o.evaluate, o.cfg.Workers)
	pop.sortByFitness()

	best := pop.best().clone()
	o.logger.Debug("initial population evaluated",
		"best_fitness", best.fitness, "best_sheets", best.sheetsUsed)

	o.setPhase(PhaseEvolving, 0, best)

	// Stagnation cutoff: stop after no best-ever improvement for more
	// than 20% of the requested generation count.
	stagnationLimit := o.cfg.Generations / 5
	if stagnationLimit < 1 {
		stagnationLimit = 1
	}

	generation := 0
	sinceImprovement := 0
	for generation < o.cfg.Generations {
		if err := ctx.Err(); err != nil {
			return model.Result{}, err
		}

		o.evolveGeneration(pop)
		generation++

		if current := pop.best(); current.fitness < best.fitness {
			best = current.clone()
			sinceImprovement = 0
			o.logger.Debug("new best solution",
				"generation", generation, "fitness", best.fitness, "sheets", best.sheetsUsed)
		} else {
			sinceImprovement++
		}

		o.report(Progress{Phase: PhaseEvolving, Generation: generation,
			BestFitness: best.fitness, BestSheets: best.sheetsUsed})

		if o.cfg.TargetFitness > 0 && best.fitness <= o.cfg.TargetFitness {
			o.logger.Debug("target fitness reached", "generation", generation)
			break
		}
		if sinceImprovement > stagnationLimit {
			o.logger.Debug("search stagnated", "generation", generation,
				"generations_without_improvement", sinceImprovement)
			break
		}
	}

	o.setPhase(PhaseConverged, generation, best)
	o.setPhase(PhaseFinalizing, generation, best)

	// Re-derive the winner's concrete layout exactly once; intermediate
	// generations only needed the fitness number.
	sheets, leftover := o.packer.Pack(o.applyGenes(best))
	normalizeRotation(sheets, o.rects)

	result := model.Result{
		SheetsUsed:  len(sheets),
		Sheets:      sheets,
		Unplaced:    o.unfit,
		BestFitness: best.fitness,
		Generations: generation,
	}
	// Every rectangle handed to the GA fits an empty sheet, so the
	// strategy can always open a new sheet for it.
	for _, r := range leftover {
		result.Unplaced = append(result.Unplaced, model.UnplacedRectangle{
			ID: r.ID, Width: r.Width, Height: r.Height, Reason: "placement failed",
		})
	}

	o.setPhase(PhaseDone, generation, best)
	return result, nil
}

// initialPopulation seeds one individual per heuristic ordering, then
// fills the remainder with random individuals up to the population size.
func (o *Optimizer) initialPopulation() *population {
	n := len(o.rects)
	pop := &population{individuals: make([]*individual, 0, o.cfg.PopulationSize)}

	for _, key := range seedOrders() {
		if len(pop.individuals) == o.cfg.PopulationSize {
			break
		}
		pop.individuals = append(pop.individuals, heuristicIndividual(o.rects, key, o.cfg.AllowRotation))
	}
	for len(pop.individuals) < o.cfg.PopulationSize {
		pop.individuals = append(pop.individuals, newRandomIndividual(n, o.cfg.AllowRotation, o.rng))
	}
	return pop
}

// evolveGeneration produces the next generation in place: elites carry
// over unmodified, the rest comes from tournament-selected parents via
// order crossover and mutation.
func (o *Optimizer) evolveGeneration(pop *population) {
	eliteCount := int(float64(o.cfg.PopulationSize) * o.cfg.ElitePercentage)
	if eliteCount < 1 {
		eliteCount = 1
	}
	if eliteCount > len(pop.individuals) {
		eliteCount = len(pop.individuals)
	}

	next := make([]*individual, 0, o.cfg.PopulationSize+1)
	for i := 0; i < eliteCount; i++ {
		next = append(next, pop.individuals[i].clone())
	}

	for len(next) < o.cfg.PopulationSize {
		p1 := pop.tournament(o.cfg.TournamentSize, o.rng)
		p2 := pop.tournament(o.cfg.TournamentSize, o.rng)

		c1, c2 := orderCrossover(p1, p2, o.rng)
		c1.mutate(o.cfg.MutationRate, o.cfg.AllowRotation, o.rng)
		c2.mutate(o.cfg.MutationRate, o.cfg.AllowRotation, o.rng)
		next = append(next, c1, c2)
	}
	// A pair appended at size-1 overshoots by one.
	next = next[:o.cfg.PopulationSize]

	pop.individuals = next
	pop.evaluateAll(o.evaluate, o.cfg.Workers)
	pop.sortByFitness()
}

// evaluate packs the individual's ordered, rotation-applied rectangles
// and caches fitness: sheet count plus an efficiency tie-break that
// stays below one sheet.
func (o *Optimizer) evaluate(ind *individual) {
	if ind.evaluated {
		return
	}
	sheets, _ := o.packer.Pack(o.applyGenes(ind))
	ind.sheetsUsed = len(sheets)
	ind.fitness = float64(len(sheets)) + (1-o.packer.Efficiency(sheets))*o.cfg.TieBreakWeight
	ind.evaluated = true
}

// applyGenes converts an individual into the ordered rectangle list the
// packer consumes, applying each gene's rotation decision.
func (o *Optimizer) applyGenes(ind *individual) []model.Rectangle {
	ordered := make([]model.Rectangle, len(ind.genes))
	for i, g := range ind.genes {
		r := o.rects[g.rectIndex]
		if g.rotated {
			r = r.Rotated()
		}
		ordered[i] = r
	}
	return ordered
}

// normalizeRotation rewrites each placement's Rotated flag relative to
// the part's original input orientation. Gene rotation and the
// strategy's in-sheet rotation retry can cancel each other out, so the
// flag is only meaningful against the original dimensions.
func normalizeRotation(sheets []model.Sheet, originals []model.Rectangle) {
	dims := make(map[string]model.Rectangle, len(originals))
	for _, r := range originals {
		dims[r.ID] = r
	}
	for si := range sheets {
		for pi := range sheets[si].Placements {
			p := &sheets[si].Placements[pi]
			orig, ok := dims[p.ID]
			if !ok {
				continue
			}
			p.Rotated = !orig.IsSquare() && p.Width != orig.Width
		}
	}
}

func (o *Optimizer) setPhase(p Phase, generation int, best *individual) {
	o.phase = p
	snapshot := Progress{Phase: p, Generation: generation}
	if best != nil {
		snapshot.BestFitness = best.fitness
		snapshot.BestSheets = best.sheetsUsed
	}
	o.report(snapshot)
}

func (o *Optimizer) report(p Progress) {
	if o.onProgress != nil {
		o.onProgress(p)
	}
}

// Pack runs a single deterministic Bottom-Left Fill pass over rectangles
// in the given fixed order, without any search. Callers that already
// have an ordering use this to get one concrete layout.
func Pack(ordered []model.Rectangle, sheetWidth, sheetHeight float64, allowRotation bool, margin float64) ([]model.Sheet, []model.UnplacedRectangle, error) {
	if sheetWidth <= 0 || sheetHeight <= 0 {
		return nil, nil, fmt.Errorf("invalid config: sheet dimensions must be positive, got %gx%g", sheetWidth, sheetHeight)
	}
	if margin < 0 {
		return nil, nil, fmt.Errorf("invalid config: cutting margin must be non-negative, got %g", margin)
	}
	for _, r := range ordered {
		if r.Width <= 0 || r.Height <= 0 {
			return nil, nil, fmt.Errorf("invalid rectangle %q: dimensions must be positive, got %gx%g", r.ID, r.Width, r.Height)
		}
	}

	packer := NewBinPacker(NewBottomLeftFill(sheetWidth, sheetHeight, allowRotation, margin))
	sheets, leftover := packer.Pack(ordered)

	var unplaced []model.UnplacedRectangle
	for _, r := range leftover {
		unplaced = append(unplaced, model.UnplacedRectangle{
			ID: r.ID, Width: r.Width, Height: r.Height,
			Reason: fmt.Sprintf("exceeds sheet %gx%g in every permitted orientation", sheetWidth, sheetHeight),
		})
	}
	return sheets, unplaced, nil
}
