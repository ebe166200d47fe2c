package mirror

import (
	"fmt"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
)

// CommitLoad records C6's load decision for one flight as an overwrite
// of any previously submitted load (spec.md §9 open question #1,
// decided: later submissions replace rather than add to earlier ones
// within the same round). Inventory at the origin is adjusted by the
// delta immediately; DEPARTED performs no further decrement.
func (m *MirrorState) CommitLoad(flightID string, k kit.Vector) error {
	f, ok := m.Flights[flightID]
	if !ok {
		return fmt.Errorf("commit load: unknown flight %s", flightID)
	}
	if f.Phase >= Departed {
		return fmt.Errorf("commit load: flight %s already departed", flightID)
	}

	delta := k.Sub(f.CommittedLoad)
	m.Inventory[f.Origin] = m.Inventory[f.Origin].Sub(delta)
	f.CommittedLoad = k
	return nil
}

// CommitPurchase enqueues a hub replenishment order for delivery once
// transport lead time and hub processing are both accounted for
// (spec.md §9 open question #3 / boundary law B2:
// ready_hour = current_hour + lead_time[c] + hub.processing_hours[c]).
func (m *MirrorState) CommitPurchase(cat *catalog.Catalog, q kit.Vector) error {
	hub, ok := cat.Hub()
	if !ok {
		return fmt.Errorf("commit purchase: no hub configured")
	}
	for c := 0; c < kit.NumClasses; c++ {
		if q[c] == 0 {
			continue
		}
		meta := cat.KitMeta(kit.Class(c))
		readyHour := m.CurrentHour.Add(meta.LeadTimeHours + hub.ProcessingHours[c])
		var qty kit.Vector
		qty[c] = q[c]
		m.Movements = append(m.Movements, Movement{
			Kind:       PurchaseDelivery,
			Airport:    hub.Code,
			ReadyHour:  readyHour,
			Quantities: qty,
		})
	}
	return nil
}
