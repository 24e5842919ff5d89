package engine

import (
	"math/rand"
	"sort"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

// gene is one placement decision: which rectangle, and whether it is
// rotated before packing.
type gene struct {
	rectIndex int
	rotated   bool
}

// individual is one candidate solution: a permutation of rectangle
// indices with per-index rotation flags, plus a cached fitness.
type individual struct {
	genes      []gene
	fitness    float64
	sheetsUsed int
	evaluated  bool
}

// newRandomIndividual builds a uniformly random permutation with
// independent random rotation bits.
func newRandomIndividual(n int, allowRotation bool, rng *rand.Rand) *individual {
	genes := make([]gene, n)
	for i, idx := range rng.Perm(n) {
		genes[i] = gene{
			rectIndex: idx,
			rotated:   allowRotation && rng.Float64() < 0.5,
		}
	}
	return &individual{genes: genes}
}

// clone deep-copies the individual, preserving its cached fitness.
func (ind *individual) clone() *individual {
	genes := make([]gene, len(ind.genes))
	copy(genes, ind.genes)
	return &individual{
		genes:      genes,
		fitness:    ind.fitness,
		sheetsUsed: ind.sheetsUsed,
		evaluated:  ind.evaluated,
	}
}

// mutate visits every gene and, with probability rate, either flips its
// rotation flag or swaps it with a uniformly chosen other position.
// Any mutation invalidates the cached fitness.
func (ind *individual) mutate(rate float64, allowRotation bool, rng *rand.Rand) {
	mutated := false
	for i := range ind.genes {
		if rng.Float64() >= rate {
			continue
		}
		if allowRotation && rng.Float64() < 0.5 {
			ind.genes[i].rotated = !ind.genes[i].rotated
		} else {
			j := rng.Intn(len(ind.genes))
			ind.genes[i], ind.genes[j] = ind.genes[j], ind.genes[i]
		}
		mutated = true
	}
	if mutated {
		ind.evaluated = false
	}
}

// orderCrossover implements Order Crossover (OX). Each child copies one
// parent's genes verbatim into [start, end]; the remaining positions are
// filled left to right with the other parent's genes in their original
// order, skipping rectangle indices already present in the segment.
// This preserves the permutation invariant by construction.
func orderCrossover(a, b *individual, rng *rand.Rand) (*individual, *individual) {
	n := len(a.genes)
	start := rng.Intn(n)
	end := start + rng.Intn(n-start)

	return oxChild(a, b, start, end), oxChild(b, a, start, end)
}

// oxChild builds one OX offspring: segment [start, end] from seg,
// remaining positions from other.
func oxChild(seg, other *individual, start, end int) *individual {
	n := len(seg.genes)
	genes := make([]gene, n)
	inSegment := make(map[int]bool, end-start+1)
	for i := start; i <= end; i++ {
		genes[i] = seg.genes[i]
		inSegment[seg.genes[i].rectIndex] = true
	}

	fill := 0
	for i := 0; i < n; i++ {
		if i >= start && i <= end {
			continue
		}
		for inSegment[other.genes[fill].rectIndex] {
			fill++
		}
		genes[i] = other.genes[fill]
		fill++
	}
	return &individual{genes: genes}
}

// seedOrder is one heuristic ordering key used to seed the initial
// population with plausible solutions.
type seedOrder func(model.Rectangle) float64

// seedOrders lists the heuristic ordering keys, all sorted descending:
// by area, by longest side, by width, and by perimeter.
func seedOrders() []seedOrder {
	return []seedOrder{
		func(r model.Rectangle) float64 { return r.Area() },
		func(r model.Rectangle) float64 {
			if r.Width > r.Height {
				return r.Width
			}
			return r.Height
		},
		func(r model.Rectangle) float64 { return r.Width },
		func(r model.Rectangle) float64 { return r.Perimeter() },
	}
}

// heuristicIndividual orders rectangles descending by the given key.
// When rotation is allowed, each gene is rotated so the shorter side
// becomes the height, which favors long low rows under bottom-left fill.
func heuristicIndividual(rects []model.Rectangle, key seedOrder, allowRotation bool) *individual {
	indices := make([]int, len(rects))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return key(rects[indices[i]]) > key(rects[indices[j]])
	})

	genes := make([]gene, len(rects))
	for pos, idx := range indices {
		genes[pos] = gene{
			rectIndex: idx,
			rotated:   allowRotation && rects[idx].Height > rects[idx].Width,
		}
	}
	return &individual{genes: genes}
}
