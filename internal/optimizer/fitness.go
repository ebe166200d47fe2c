package optimizer

import (
	"github.com/shopspring/decimal"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/costmodel"
	"iaros/kitlogistics/internal/horizon"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

// evaluate scores one candidate by simulating it against a throwaway
// clone of the mirror (spec.md §4.5): commit every flight load and
// the purchase order, advance the clone across the purchase horizon,
// and sum every objective term spec.md §4.6 names — per-flight
// loading/movement/processing costs and overload/unfulfilled
// penalties, the purchase cost, and any boundary penalties the
// simulated advance newly observes. Lower is better.
func evaluate(ind individual, m *mirror.MirrorState, cat *catalog.Catalog, view horizon.View, purchaseHorizonHours int) decimal.Decimal {
	sim := m.Clone()
	kitMeta := cat.AllKitMeta()
	total := decimal.Zero

	for i, f := range view.LoadableFlights {
		origin, _ := cat.Airport(f.Origin)
		destination, _ := cat.Airport(f.Destination)
		aircraft, _ := cat.Aircraft(f.AircraftTypeCode)
		k := ind.loads[i]

		b := costmodel.FlightCost(origin, destination, aircraft, f.Distance(), f.Passengers(), k, kitMeta)
		total = total.Add(b.Total)
		_ = sim.CommitLoad(f.ID, k)
	}

	total = total.Add(costmodel.PurchaseCost(ind.purchases, kitMeta))
	_ = sim.CommitPurchase(cat, ind.purchases)

	horizonEnd := view.CurrentHour.Add(purchaseHorizonHours)
	reachesGameEnd := horizonEnd >= kit.GameEndHour
	if reachesGameEnd {
		horizonEnd = kit.GameEndHour
	}

	observedFrom := len(sim.BoundaryPenalties)
	sim.AdvanceTo(horizonEnd)
	for _, bp := range sim.BoundaryPenalties[observedFrom:] {
		total = total.Add(decimal.NewFromFloat(costmodel.NegFactor).Mul(decimal.NewFromInt(int64(bp.NegativeExcess.Sum()))))
		total = total.Add(decimal.NewFromFloat(costmodel.OverFactor).Mul(decimal.NewFromInt(int64(bp.OverstockExcess.Sum()))))
	}

	// When the simulated lookahead reaches the game's final hour, tilt
	// the terminal phase toward depletion at outstations (spec.md §4.2,
	// §9 scenario S5): weight whatever is still on-hand or in transit/
	// processing by EndOfGamePenalty rather than letting the optimizer
	// treat leftover hub stock as free.
	if reachesGameEnd {
		_, remaining := sim.ConservationBalance()
		total = total.Add(costmodel.EndOfGamePenalty(remaining, kitMeta))
	}
	return total
}
