// Package mirror implements the State Mirror (C3): a per-session
// projection of airport inventories, in-transit kits, processing
// queues and pending purchase deliveries, reconstructed incrementally
// from the server's flight-event stream (spec.md §4.3).
package mirror

import "iaros/kitlogistics/internal/kit"

// Phase is a flight's position in its lifecycle state machine.
type Phase int

const (
	Announced Phase = iota
	CheckedIn
	Departed
	Landed
)

func (p Phase) String() string {
	switch p {
	case Announced:
		return "ANNOUNCED"
	case CheckedIn:
		return "CHECKED_IN"
	case Departed:
		return "DEPARTED"
	case Landed:
		return "LANDED"
	}
	return "UNKNOWN"
}

// FlightState is the mirror's mutable runtime record for one flight,
// overlaying the catalog's immutable FlightTemplate with the dynamic
// fields spec.md §3 names (phase, actuals, committed load).
type FlightState struct {
	ID                 string
	FlightNumber       string
	Origin             string
	Destination        string
	ScheduledDeparture kit.Hour
	ScheduledArrival   kit.Hour
	AircraftTypeCode   string
	PlannedPassengers  kit.Vector
	PlannedDistance    float64

	Phase             Phase
	ActualPassengers  *kit.Vector
	ActualDistance    *float64
	ActualArrival     *kit.Hour
	CommittedLoad     kit.Vector
}

// Passengers resolves the best-available passenger vector: actual once
// CHECKED_IN, planned otherwise (spec.md §3).
func (f *FlightState) Passengers() kit.Vector {
	if f.ActualPassengers != nil {
		return *f.ActualPassengers
	}
	return f.PlannedPassengers
}

// Distance resolves planned_distance until CHECKED_IN, then actual_distance
// if present, else planned (spec.md §9 open question #2, decided: planned
// until checked in, actual-if-present thereafter).
func (f *FlightState) Distance() float64 {
	if f.ActualDistance != nil {
		return *f.ActualDistance
	}
	return f.PlannedDistance
}

// MovementKind tags the three pending-movement variants (spec.md §3).
type MovementKind int

const (
	InTransit MovementKind = iota
	Processing
	PurchaseDelivery
)

func (k MovementKind) String() string {
	switch k {
	case InTransit:
		return "IN_TRANSIT"
	case Processing:
		return "PROCESSING"
	case PurchaseDelivery:
		return "PURCHASE_DELIVERY"
	}
	return "UNKNOWN"
}

// tieBreakRank orders movements deterministically within the same
// ready_hour: purchases before processing completions before arrivals
// (spec.md §4.3's advance_to contract).
func (k MovementKind) tieBreakRank() int {
	switch k {
	case PurchaseDelivery:
		return 0
	case Processing:
		return 1
	case InTransit:
		return 2
	}
	return 3
}

// Movement is one pending queue entry.
type Movement struct {
	Kind      MovementKind
	FlightID  string // set for InTransit
	Airport   string // destination (InTransit/Processing) or hub (PurchaseDelivery)
	ReadyHour kit.Hour
	Quantities kit.Vector
}

// EventType is one of the three wire event kinds the server pushes.
type EventType int

const (
	EventScheduled EventType = iota
	EventCheckedIn
	EventLanded
)

// Event is the mirror-level (transport-agnostic) representation of one
// server flight event, built by internal/events from the wire DTO.
type Event struct {
	Type               EventType
	FlightID           string
	FlightNumber       string
	Origin             string
	Destination        string
	ScheduledDeparture kit.Hour
	ScheduledArrival   kit.Hour
	ActualArrival      *kit.Hour
	AircraftTypeCode   string
	Distance           float64
	Passengers         kit.Vector
}

// AnomalyKind is one of the three projection-inconsistency kinds
// spec.md §4.3's failure model names.
type AnomalyKind int

const (
	UnknownFlight AnomalyKind = iota
	PhaseRegression
	NegativeBalance
)

func (k AnomalyKind) String() string {
	switch k {
	case UnknownFlight:
		return "UNKNOWN_FLIGHT"
	case PhaseRegression:
		return "PHASE_REGRESSION"
	case NegativeBalance:
		return "NEGATIVE_BALANCE"
	}
	return "UNKNOWN"
}

// Anomaly is a recorded projection inconsistency. The mirror never
// throws on these; it records and continues (spec.md §4.3).
type Anomaly struct {
	Kind   AnomalyKind
	Detail string
	Hour   kit.Hour
}

// BoundaryPenalty records the negative-inventory / overstock excess
// observed at one airport at one hour boundary, for C6's objective and
// for observability (spec.md §4.3's "penalty tallies exposed to C6").
type BoundaryPenalty struct {
	Hour             kit.Hour
	Airport          string
	NegativeExcess   kit.Vector // max(0, -inv[c]) per class
	OverstockExcess  kit.Vector // max(0, inv[c]-capacity[c]) per class
}
