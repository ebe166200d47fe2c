package optimizer

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/horizon"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

// individual is one candidate decision: a load vector per loadable
// flight (same order as view.LoadableFlights) plus one purchase
// vector.
type individual struct {
	loads     []kit.Vector
	purchases kit.Vector
	fitness   decimal.Decimal
}

func (ind individual) clone() individual {
	loads := make([]kit.Vector, len(ind.loads))
	copy(loads, ind.loads)
	return individual{loads: loads, purchases: ind.purchases, fitness: ind.fitness}
}

func greedyIndividual(view horizon.View, m *mirror.MirrorState, cat *catalog.Catalog) individual {
	loads := make([]kit.Vector, len(view.LoadableFlights))
	reserved := make(map[string]kit.Vector, len(view.LoadableFlights))
	for i, f := range view.LoadableFlights {
		loads[i] = greedyLoad(f, cat, m, reserved)
	}
	return individual{loads: loads, purchases: purchasePolicy(m, cat, view)}
}

// seedPopulation builds the initial generation: the deterministic
// greedy baseline, an aggressive variant loading 5-10% above passenger
// count, and uniform-random individuals in [100%,110%] of passengers,
// all clamped to aircraft capacity (spec.md §4.6(b)).
func seedPopulation(view horizon.View, m *mirror.MirrorState, cat *catalog.Catalog, size int, rng *rand.Rand) []individual {
	n := len(view.LoadableFlights)
	baseline := greedyIndividual(view, m, cat)

	aggressive := individual{loads: make([]kit.Vector, n), purchases: baseline.purchases}
	for i, f := range view.LoadableFlights {
		aircraft, _ := cat.Aircraft(f.AircraftTypeCode)
		passengers := f.Passengers()
		var k kit.Vector
		for c := 0; c < kit.NumClasses; c++ {
			k[c] = int(float64(passengers[c]) * 1.075)
		}
		aggressive.loads[i] = k.Min(aircraft.KitCapacity)
	}

	pop := make([]individual, 0, size)
	pop = append(pop, baseline, aggressive)

	for len(pop) < size {
		ind := individual{loads: make([]kit.Vector, n), purchases: baseline.purchases}
		for i, f := range view.LoadableFlights {
			aircraft, _ := cat.Aircraft(f.AircraftTypeCode)
			passengers := f.Passengers()
			var k kit.Vector
			for c := 0; c < kit.NumClasses; c++ {
				frac := 1.0 + rng.Float64()*0.10
				k[c] = int(float64(passengers[c]) * frac)
			}
			ind.loads[i] = k.Min(aircraft.KitCapacity)
		}
		pop = append(pop, ind)
	}
	return pop
}

const tournamentSize = 4

func tournamentSelect(pop []individual, rng *rand.Rand) individual {
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < tournamentSize; i++ {
		cand := pop[rng.Intn(len(pop))]
		if cand.fitness.LessThan(best.fitness) {
			best = cand
		}
	}
	return best
}

// crossover combines two parents with a single crossover point across
// the flight-load gene sequence, plus a coin-flip pick for the
// purchase vector gene.
func crossover(a, b individual, rng *rand.Rand) individual {
	n := len(a.loads)
	child := individual{loads: make([]kit.Vector, n)}
	point := rng.Intn(n + 1)
	for i := 0; i < n; i++ {
		if i < point {
			child.loads[i] = a.loads[i]
		} else {
			child.loads[i] = b.loads[i]
		}
	}
	if rng.Float64() < 0.5 {
		child.purchases = a.purchases
	} else {
		child.purchases = b.purchases
	}
	return child
}

// mutate perturbs each gene independently: 80% of mutations are a
// small ±1-3 tweak, 20% a larger ±5-10 jump (spec.md §4.6(b)).
func mutate(ind individual, view horizon.View, cat *catalog.Catalog, mutationRate float64, rng *rand.Rand) {
	for i, f := range view.LoadableFlights {
		aircraft, _ := cat.Aircraft(f.AircraftTypeCode)
		for c := 0; c < kit.NumClasses; c++ {
			if rng.Float64() >= mutationRate {
				continue
			}
			delta := mutationDelta(rng)
			v := ind.loads[i][c] + delta
			if v < 0 {
				v = 0
			}
			if v > aircraft.KitCapacity[c] {
				v = aircraft.KitCapacity[c]
			}
			ind.loads[i][c] = v
		}
	}
	for c := 0; c < kit.NumClasses; c++ {
		if rng.Float64() >= mutationRate {
			continue
		}
		v := ind.purchases[c] + mutationDelta(rng)
		if v < 0 {
			v = 0
		}
		ind.purchases[c] = v
	}
}

func mutationDelta(rng *rand.Rand) int {
	var delta int
	if rng.Float64() < 0.8 {
		delta = 1 + rng.Intn(3)
	} else {
		delta = 5 + rng.Intn(6)
	}
	if rng.Float64() < 0.5 {
		delta = -delta
	}
	return delta
}
