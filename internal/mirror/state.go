package mirror

import (
	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/logging"
)

// MirrorState is the single-writer projection described in spec.md §3.
// Fields are exported so it can round-trip through encoding/json (R1)
// without a bespoke codec; the catalog reference is excluded from
// serialization since it is external, immutable configuration.
type MirrorState struct {
	CurrentHour      kit.Hour
	Inventory        map[string]kit.Vector
	Movements        []Movement
	Flights          map[string]*FlightState
	CumulativeCost   float64
	Anomalies        []Anomaly
	BoundaryPenalties []BoundaryPenalty

	// Conservation bookkeeping for invariant I1.
	TotalPurchased kit.Vector
	TotalProcessed kit.Vector
	TotalLoaded    kit.Vector
	InitialTotal   kit.Vector

	cat    *catalog.Catalog  `json:"-"`
	logger *logging.Logger   `json:"-"`
}

// New builds a MirrorState seeded from the catalog's initial
// inventories and flight schedule (spec.md §3's lifecycle: "created
// once at session start from the catalog's initial inventories").
func New(cat *catalog.Catalog, logger *logging.Logger) *MirrorState {
	if logger == nil {
		logger = logging.Nop()
	}
	m := &MirrorState{
		Inventory: make(map[string]kit.Vector),
		Flights:   make(map[string]*FlightState),
		cat:       cat,
		logger:    logger,
	}

	var initial kit.Vector
	for _, a := range cat.AllAirports() {
		m.Inventory[a.Code] = a.InitialInventory
		initial = initial.Add(a.InitialInventory)
	}
	m.InitialTotal = initial

	for _, ft := range cat.AllFlights() {
		m.Flights[ft.ID] = &FlightState{
			ID:                 ft.ID,
			FlightNumber:       ft.FlightNumber,
			Origin:             ft.Origin,
			Destination:        ft.Destination,
			ScheduledDeparture: ft.ScheduledDeparture,
			ScheduledArrival:   ft.ScheduledArrival,
			AircraftTypeCode:   ft.AircraftTypeCode,
			PlannedPassengers:  ft.PlannedPassengers,
			PlannedDistance:    ft.PlannedDistance,
			Phase:              Announced,
		}
	}
	return m
}

// AttachCatalog re-attaches the catalog reference after deserialization
// (the catalog itself is not part of the serialized state).
func (m *MirrorState) AttachCatalog(cat *catalog.Catalog, logger *logging.Logger) {
	m.cat = cat
	if logger == nil {
		logger = logging.Nop()
	}
	m.logger = logger
}

// InventoryAt returns the current on-hand inventory at an airport.
func (m *MirrorState) InventoryAt(airport string) kit.Vector {
	return m.Inventory[airport]
}

// Flight looks up a flight's runtime state.
func (m *MirrorState) Flight(id string) (*FlightState, bool) {
	f, ok := m.Flights[id]
	return f, ok
}

// AllFlights returns every known flight's runtime state.
func (m *MirrorState) AllFlights() []*FlightState {
	out := make([]*FlightState, 0, len(m.Flights))
	for _, f := range m.Flights {
		out = append(out, f)
	}
	return out
}

// PendingMovements returns a copy of the pending movement queue.
func (m *MirrorState) PendingMovements() []Movement {
	out := make([]Movement, len(m.Movements))
	copy(out, m.Movements)
	return out
}

func (m *MirrorState) recordAnomaly(kind AnomalyKind, detail string) {
	m.Anomalies = append(m.Anomalies, Anomaly{Kind: kind, Detail: detail, Hour: m.CurrentHour})
	if m.logger != nil {
		m.logger.AnomalyLogger(kind.String(), detail)
	}
}

// ConservationBalance computes both sides of invariant I1. Loading and
// processing only move kits between the "on-hand inventory", "loads
// committed to flights not yet departed" and "pending movement" buckets
// that make up the right-hand side; they never create or destroy kits,
// so only purchases ordered from outside the system (delivered or
// still pending delivery) add to the left-hand side:
//
//	sum(initial_inventory) + sum(purchases_ordered)
//	  == sum(current_inventory) + sum(undeparted_committed_loads) + sum(pending_movements)
func (m *MirrorState) ConservationBalance() (lhs, rhs kit.Vector) {
	lhs = m.InitialTotal.Add(m.TotalPurchased)

	var curInv kit.Vector
	for _, v := range m.Inventory {
		curInv = curInv.Add(v)
	}
	var pending kit.Vector
	for _, mv := range m.Movements {
		if mv.Kind == PurchaseDelivery {
			lhs = lhs.Add(mv.Quantities)
		}
		pending = pending.Add(mv.Quantities)
	}
	var committed kit.Vector
	for _, f := range m.Flights {
		if f.Phase < Departed {
			committed = committed.Add(f.CommittedLoad)
		}
	}
	rhs = curInv.Add(pending).Add(committed)
	return lhs, rhs
}
