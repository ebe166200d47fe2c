package costmodel

import (
	"github.com/shopspring/decimal"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
)

// NegativeInventoryPenalty = NEG_FACTOR · Σ_c max(0, -inv[c]).
func NegativeInventoryPenalty(inv kit.Vector) decimal.Decimal {
	deficit := 0
	for c := 0; c < kit.NumClasses; c++ {
		if inv[c] < 0 {
			deficit += -inv[c]
		}
	}
	return decimal.NewFromFloat(NegFactor).Mul(decimal.NewFromInt(int64(deficit)))
}

// OverstockPenalty = OVER_FACTOR · Σ_c max(0, inv[c] - storage_capacity[c]).
func OverstockPenalty(inv, storageCapacity kit.Vector) decimal.Decimal {
	excess := 0
	for c := 0; c < kit.NumClasses; c++ {
		if over := inv[c] - storageCapacity[c]; over > 0 {
			excess += over
		}
	}
	return decimal.NewFromFloat(OverFactor).Mul(decimal.NewFromInt(int64(excess)))
}

// InventoryCost composes the boundary penalty terms for one airport at
// one hour (spec.md §4.6's Σ_{A,h} term).
func InventoryCost(inv, storageCapacity kit.Vector) InventoryBreakdown {
	b := InventoryBreakdown{
		NegativeInventoryPenalty: NegativeInventoryPenalty(inv),
		OverstockPenalty:         OverstockPenalty(inv, storageCapacity),
	}
	b.Total = b.NegativeInventoryPenalty.Add(b.OverstockPenalty)
	return b
}

// PurchaseCost = Σ_c Q[c] · kit_meta[c].cost (hub only).
func PurchaseCost(q kit.Vector, kitMeta [kit.NumClasses]catalog.KitClassMeta) decimal.Decimal {
	total := decimal.Zero
	for c := 0; c < kit.NumClasses; c++ {
		total = total.Add(decimal.NewFromInt(int64(q[c])).Mul(decimal.NewFromFloat(kitMeta[c].Cost)))
	}
	return total
}

// IncorrectLoadPenalty is a flat charge per invalid flight reference
// (unknown id, past departure, etc.) — spec.md §4.2.
func IncorrectLoadPenalty() decimal.Decimal {
	return decimal.NewFromFloat(IncorrectFactor)
}

// EndOfGamePenalty applies a multiplier to kits left on hand at hour
// 720 (remaining inventory, in-transit, or in processing) — spec.md
// §4.2: "informational for the optimizer only; tilt the terminal
// phase toward depletion at outstations."
func EndOfGamePenalty(remaining kit.Vector, kitMeta [kit.NumClasses]catalog.KitClassMeta) decimal.Decimal {
	total := decimal.Zero
	for c := 0; c < kit.NumClasses; c++ {
		total = total.Add(decimal.NewFromInt(int64(remaining[c])).Mul(decimal.NewFromFloat(kitMeta[c].Cost)))
	}
	return decimal.NewFromFloat(EndOfGameMultiplier).Mul(total)
}
