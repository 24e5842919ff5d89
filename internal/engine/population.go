package engine

import (
	"math/rand"
	"sort"
	"sync"
)

// population is a fixed-size collection of individuals, kept sorted
// ascending by fitness after every generation.
type population struct {
	individuals []*individual
}

// sortByFitness orders individuals ascending (lower fitness is better).
func (p *population) sortByFitness() {
	sort.SliceStable(p.individuals, func(i, j int) bool {
		return p.individuals[i].fitness < p.individuals[j].fitness
	})
}

// best returns the lowest-fitness individual. The population must be
// sorted and non-empty.
func (p *population) best() *individual {
	return p.individuals[0]
}

// tournament samples k individuals without replacement and returns the
// one with the lowest fitness. k is clamped to the population size.
func (p *population) tournament(k int, rng *rand.Rand) *individual {
	n := len(p.individuals)
	if k > n {
		k = n
	}
	var winner *individual
	for _, idx := range rng.Perm(n)[:k] {
		c := p.individuals[idx]
		if winner == nil || c.fitness < winner.fitness {
			winner = c
		}
	}
	return winner
}

// evaluateAll runs the fitness function on every individual whose cache
// is stale. With workers > 1 evaluation fans out across a bounded pool;
// this is safe because evaluation reads only immutable rectangle data
// and draws no randomness, so the resulting fitness values are
// independent of evaluation order.
func (p *population) evaluateAll(eval func(*individual), workers int) {
	var pending []*individual
	for _, ind := range p.individuals {
		if !ind.evaluated {
			pending = append(pending, ind)
		}
	}
	if len(pending) == 0 {
		return
	}

	if workers < 2 || len(pending) < 2 {
		for _, ind := range pending {
			eval(ind)
		}
		return
	}
	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan *individual)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for ind := range jobs {
				eval(ind)
			}
		}()
	}
	for _, ind := range pending {
		jobs <- ind
	}
	close(jobs)
	wg.Wait()
}
