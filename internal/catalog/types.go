package catalog

import "iaros/kitlogistics/internal/kit"

// KitClassMeta holds the immutable, per-class economics of a rotable kit.
type KitClassMeta struct {
	Class             kit.Class
	Cost              float64 // money per kit
	WeightKG          float64
	LeadTimeHours     int // purchase -> availability lag, hub only
	// ProcessingHours is read from the destination Airport, not here,
	// except for hub purchase deliveries which add the hub's own
	// processing time after the lead time (spec.md §3).
}

// Airport is one node of the static network.
type Airport struct {
	Code              string
	Name              string
	IsHub             bool
	StorageCapacity   kit.Vector
	LoadingCost       kit.Vector
	ProcessingCost    kit.Vector
	ProcessingHours   [kit.NumClasses]int
	InitialInventory  kit.Vector
}

// AircraftType bounds how many kits of each class one flight can carry.
type AircraftType struct {
	Code           string
	KitCapacity    kit.Vector
	FuelCostPerKM  float64
}

// FlightTemplate is the immutable, CSV-sourced schedule entry for one
// flight. Runtime state (phase, actuals) lives in the mirror, not here.
type FlightTemplate struct {
	ID                  string
	FlightNumber        string
	Origin              string
	Destination         string
	ScheduledDeparture  kit.Hour
	ScheduledArrival    kit.Hour
	AircraftTypeCode    string
	PlannedPassengers   kit.Vector
	PlannedDistance     float64
}
