package costmodel

import (
	"github.com/shopspring/decimal"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
)

// LoadingCost = Σ_c K[c] · origin.loading_cost[c] (spec.md §4.2).
func LoadingCost(origin catalog.Airport, k kit.Vector) decimal.Decimal {
	total := decimal.Zero
	for c := 0; c < kit.NumClasses; c++ {
		total = total.Add(decimal.NewFromInt(int64(k[c])).Mul(decimal.NewFromInt(int64(origin.LoadingCost[c]))))
	}
	return total
}

// MovementCost = d · aircraft.fuel_cost_per_km · Σ_c K[c] · kit_meta[c].weight_kg.
func MovementCost(distance float64, aircraft catalog.AircraftType, k kit.Vector, kitMeta [kit.NumClasses]catalog.KitClassMeta) decimal.Decimal {
	weight := decimal.Zero
	for c := 0; c < kit.NumClasses; c++ {
		weight = weight.Add(decimal.NewFromInt(int64(k[c])).Mul(decimal.NewFromFloat(kitMeta[c].WeightKG)))
	}
	return decimal.NewFromFloat(distance).Mul(decimal.NewFromFloat(aircraft.FuelCostPerKM)).Mul(weight)
}

// ProcessingCost = Σ_c K[c] · destination.processing_cost[c].
func ProcessingCost(destination catalog.Airport, k kit.Vector) decimal.Decimal {
	total := decimal.Zero
	for c := 0; c < kit.NumClasses; c++ {
		total = total.Add(decimal.NewFromInt(int64(k[c])).Mul(decimal.NewFromInt(int64(destination.ProcessingCost[c]))))
	}
	return total
}

// OverloadPenalty = OVERLOAD_FACTOR · d · fuel_cost_per_km · Σ_c kit_meta[c].cost · max(0, K[c] - capacity[c]).
func OverloadPenalty(distance float64, aircraft catalog.AircraftType, k kit.Vector, kitMeta [kit.NumClasses]catalog.KitClassMeta) decimal.Decimal {
	excessCost := decimal.Zero
	for c := 0; c < kit.NumClasses; c++ {
		excess := k[c] - aircraft.KitCapacity[c]
		if excess <= 0 {
			continue
		}
		excessCost = excessCost.Add(decimal.NewFromFloat(kitMeta[c].Cost).Mul(decimal.NewFromInt(int64(excess))))
	}
	return decimal.NewFromFloat(OverloadFactor).Mul(decimal.NewFromFloat(distance)).Mul(decimal.NewFromFloat(aircraft.FuelCostPerKM)).Mul(excessCost)
}

// UnfulfilledPenalty = UNFUL_FACTOR · d · Σ_c kit_meta[c].cost · max(0, P[c] - K[c]).
func UnfulfilledPenalty(distance float64, passengers, k kit.Vector, kitMeta [kit.NumClasses]catalog.KitClassMeta) decimal.Decimal {
	shortfallCost := decimal.Zero
	for c := 0; c < kit.NumClasses; c++ {
		shortfall := passengers[c] - k[c]
		if shortfall <= 0 {
			continue
		}
		shortfallCost = shortfallCost.Add(decimal.NewFromFloat(kitMeta[c].Cost).Mul(decimal.NewFromInt(int64(shortfall))))
	}
	return decimal.NewFromFloat(UnfulFactor).Mul(decimal.NewFromFloat(distance)).Mul(shortfallCost)
}

// FlightCost composes every per-flight term of the optimizer's
// objective into one breakdown (spec.md §4.6).
func FlightCost(origin, destination catalog.Airport, aircraft catalog.AircraftType, distance float64, passengers, k kit.Vector, kitMeta [kit.NumClasses]catalog.KitClassMeta) FlightBreakdown {
	b := FlightBreakdown{
		LoadingCost:        LoadingCost(origin, k),
		MovementCost:       MovementCost(distance, aircraft, k, kitMeta),
		ProcessingCost:     ProcessingCost(destination, k),
		OverloadPenalty:    OverloadPenalty(distance, aircraft, k, kitMeta),
		UnfulfilledPenalty: UnfulfilledPenalty(distance, passengers, k, kitMeta),
	}
	b.Total = b.LoadingCost.Add(b.MovementCost).Add(b.ProcessingCost).Add(b.OverloadPenalty).Add(b.UnfulfilledPenalty)
	return b
}
