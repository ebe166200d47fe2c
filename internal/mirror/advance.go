package mirror

import (
	"sort"

	"iaros/kitlogistics/internal/kit"
)

// AdvanceTo moves the mirror's clock forward hour by hour to h, applying
// departures and completing pending movements at each boundary in between
// (spec.md §4.3's advance_to contract). Calling it with h <= CurrentHour
// is a no-op, matching the server's replayed-events idempotency guarantee.
func (m *MirrorState) AdvanceTo(h kit.Hour) {
	for cursor := m.CurrentHour + 1; cursor <= h; cursor++ {
		m.departScheduledFlights(cursor)
		m.completeMovements(cursor)
		m.evaluateBoundaryPenalties(cursor)
		m.CurrentHour = cursor
	}
}

// departScheduledFlights transitions every CHECKED_IN flight whose
// scheduled_departure equals this hour into DEPARTED, enqueueing its
// InTransit movement. Inventory was already decremented at CommitLoad
// time, so this step performs no further inventory change.
func (m *MirrorState) departScheduledFlights(hour kit.Hour) {
	for _, f := range m.Flights {
		if f.Phase == CheckedIn && f.ScheduledDeparture == hour {
			m.departFlight(f, hour)
		}
	}
}

func (m *MirrorState) departFlight(f *FlightState, hour kit.Hour) {
	f.Phase = Departed
	m.TotalLoaded = m.TotalLoaded.Add(f.CommittedLoad)
	if f.CommittedLoad.IsZero() {
		return
	}
	m.Movements = append(m.Movements, Movement{
		Kind:       InTransit,
		FlightID:   f.ID,
		Airport:    f.Destination,
		ReadyHour:  f.ScheduledArrival,
		Quantities: f.CommittedLoad,
	})
}

// completeMovements dispatches every pending movement whose ready_hour
// has arrived, in deterministic tie-break order (purchases, then
// processing completions, then arrivals; spec.md §4.3).
func (m *MirrorState) completeMovements(hour kit.Hour) {
	// InTransit movements are never completed by the clock alone: they
	// are converted into a Processing entry by the LANDED event
	// (applyLanded), which may arrive before or after this hour boundary.
	// Completing them here on ready_hour alone would destroy kits that
	// haven't actually landed yet.
	var due, remaining []Movement
	for _, mv := range m.Movements {
		if mv.Kind != InTransit && mv.ReadyHour <= hour {
			due = append(due, mv)
		} else {
			remaining = append(remaining, mv)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.Kind.tieBreakRank() != b.Kind.tieBreakRank() {
			return a.Kind.tieBreakRank() < b.Kind.tieBreakRank()
		}
		if a.Airport != b.Airport {
			return a.Airport < b.Airport
		}
		return a.FlightID < b.FlightID
	})

	for _, mv := range due {
		switch mv.Kind {
		case PurchaseDelivery:
			m.Inventory[mv.Airport] = m.Inventory[mv.Airport].Add(mv.Quantities)
			m.TotalPurchased = m.TotalPurchased.Add(mv.Quantities)
		case Processing:
			m.Inventory[mv.Airport] = m.Inventory[mv.Airport].Add(mv.Quantities)
			m.TotalProcessed = m.TotalProcessed.Add(mv.Quantities)
		}
	}
	m.Movements = remaining
}

// evaluateBoundaryPenalties records invariant I3's negative-inventory
// and overstock excess at every airport for this hour, used by the
// optimizer's penalty tally and surfaced as anomalies when inventory
// has gone negative (a projection bug, not a valid game state).
func (m *MirrorState) evaluateBoundaryPenalties(hour kit.Hour) {
	if m.cat == nil {
		return
	}
	for _, a := range m.cat.AllAirports() {
		inv := m.Inventory[a.Code]
		var neg, over kit.Vector
		for c := 0; c < kit.NumClasses; c++ {
			if inv[c] < 0 {
				neg[c] = -inv[c]
			}
			if limit := a.StorageCapacity[c]; inv[c] > limit {
				over[c] = inv[c] - limit
			}
		}
		if neg.IsZero() && over.IsZero() {
			continue
		}
		m.BoundaryPenalties = append(m.BoundaryPenalties, BoundaryPenalty{
			Hour:            hour,
			Airport:         a.Code,
			NegativeExcess:  neg,
			OverstockExcess: over,
		})
		if !neg.IsZero() {
			m.recordAnomaly(NegativeBalance, "airport "+a.Code+" went negative")
		}
	}
}
