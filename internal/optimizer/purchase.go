package optimizer

import (
	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/horizon"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

// purchaseSafetyFactor pads the purchase target above raw forecast
// demand, the same "compute a target, subtract the pipeline, buy the
// remainder" shape as a supply-aware purchase sizing policy, adapted
// from a scarcity multiplier to a fixed safety margin since this
// domain has no market supply/activity signal to read.
const purchaseSafetyFactor = 1.3

// purchasePolicy sizes a hub replenishment order per class by topping
// up the projected stock at that class's earliest-arrival hour
// (current hour + lead_time[c] + hub.processing_hours[c]) to a
// safety-factored share of forecast demand (spec.md §4.6).
func purchasePolicy(m *mirror.MirrorState, cat *catalog.Catalog, view horizon.View) kit.Vector {
	hub, ok := cat.Hub()
	if !ok {
		return kit.Vector{}
	}

	var q kit.Vector
	for c := 0; c < kit.NumClasses; c++ {
		meta := cat.KitMeta(kit.Class(c))
		eta := m.CurrentHour.Add(meta.LeadTimeHours + hub.ProcessingHours[c])

		stockAtETA := m.InventoryAt(hub.Code)[c]
		for _, mv := range m.PendingMovements() {
			if mv.Airport != hub.Code || mv.ReadyHour > eta {
				continue
			}
			if mv.Kind == mirror.Processing || mv.Kind == mirror.PurchaseDelivery {
				stockAtETA += mv.Quantities[c]
			}
		}

		target := int(float64(view.ForecastDemand[c]) * purchaseSafetyFactor)
		need := target - stockAtETA
		if need <= 0 {
			continue
		}
		// Clamp by hub.storage_capacity - projected_hub_inventory_at_eta
		// (spec.md §4.6) so the seed cannot systematically over-order
		// past what the hub can actually hold once the order lands.
		if headroom := hub.StorageCapacity[c] - stockAtETA; need > headroom {
			need = headroom
		}
		if need > 0 {
			q[c] = need
		}
	}
	return q
}
