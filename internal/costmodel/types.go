package costmodel

import "github.com/shopspring/decimal"

// FlightBreakdown is a per-flight, per-decision cost/penalty breakdown,
// in the shape of the teacher's PriceBreakdown: one named field per
// adjustment, summed into a total (spec.md §4.2/§4.6's objective).
type FlightBreakdown struct {
	LoadingCost       decimal.Decimal
	MovementCost      decimal.Decimal
	ProcessingCost    decimal.Decimal
	OverloadPenalty   decimal.Decimal
	UnfulfilledPenalty decimal.Decimal
	Total             decimal.Decimal
}

// InventoryBreakdown is the boundary-evaluation cost for one airport
// at one hour: the negative-inventory and overstock penalty terms of
// the objective (spec.md §4.6's Σ_{A,h} term).
type InventoryBreakdown struct {
	NegativeInventoryPenalty decimal.Decimal
	OverstockPenalty         decimal.Decimal
	Total                    decimal.Decimal
}
