// Package optimizer implements the Decision Optimizer (C6): a
// population-based (genetic) search over per-flight load vectors and
// one hub purchase vector, the staged "gather, score, constrain"
// pipeline shape generalized to evolutionary search since no MILP/LP
// solver is available (spec.md §4.6(b), §9).
package optimizer

import (
	"math/rand"
	"sort"
	"time"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/horizon"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

// Decision is C6's output for one round: a load vector per flight id
// and a single hub purchase order.
type Decision struct {
	Loads     map[string]kit.Vector
	Purchases kit.Vector
}

// Config controls the search. Defaults live in internal/config.
type Config struct {
	Deadline             time.Duration
	PopulationSize       int
	NoImprovementLimit   int
	MutationRate         float64
	Seed                 int64
	PurchaseHorizonHours int
}

const elitismCount = 3

// Optimize runs the search to the deadline or until NoImprovementLimit
// consecutive generations fail to improve the incumbent, whichever
// comes first. The deterministic greedy baseline is re-evaluated and
// injected into every generation so the final decision is never worse
// than the greedy seed alone (spec.md §4.6(b)).
func Optimize(m *mirror.MirrorState, cat *catalog.Catalog, view horizon.View, cfg Config) Decision {
	if len(view.LoadableFlights) == 0 {
		return Decision{Loads: map[string]kit.Vector{}, Purchases: purchasePolicy(m, cat, view)}
	}

	deadline := time.Now().Add(cfg.Deadline)
	rng := rand.New(rand.NewSource(cfg.Seed))

	pop := seedPopulation(view, m, cat, cfg.PopulationSize, rng)
	for i := range pop {
		pop[i].fitness = evaluate(pop[i], m, cat, view, cfg.PurchaseHorizonHours)
	}
	sortByFitness(pop)

	best := pop[0]
	noImprovement := 0

	for time.Now().Before(deadline) && noImprovement < cfg.NoImprovementLimit {
		next := make([]individual, 0, len(pop))
		for i := 0; i < elitismCount && i < len(pop); i++ {
			next = append(next, pop[i].clone())
		}

		greedy := greedyIndividual(view, m, cat)
		greedy.fitness = evaluate(greedy, m, cat, view, cfg.PurchaseHorizonHours)
		next = append(next, greedy)

		for len(next) < len(pop) {
			a := tournamentSelect(pop, rng)
			b := tournamentSelect(pop, rng)
			child := crossover(a, b, rng)
			mutate(child, view, cat, cfg.MutationRate, rng)
			child.fitness = evaluate(child, m, cat, view, cfg.PurchaseHorizonHours)
			next = append(next, child)
		}

		sortByFitness(next)
		pop = next

		if pop[0].fitness.LessThan(best.fitness) {
			best = pop[0]
			noImprovement = 0
		} else {
			noImprovement++
		}
	}

	loads := make(map[string]kit.Vector, len(view.LoadableFlights))
	for i, f := range view.LoadableFlights {
		loads[f.ID] = best.loads[i]
	}
	return Decision{Loads: loads, Purchases: best.purchases}
}

func sortByFitness(pop []individual) {
	sort.Slice(pop, func(i, j int) bool { return pop[i].fitness.LessThan(pop[j].fitness) })
}
