package optimizer

import (
	"testing"

	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

func TestGreedyLoadAddsBufferAtOutstationEvenBelowBreakEven(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	m.ApplyEvents([]mirror.Event{{Type: mirror.EventCheckedIn, FlightID: "FL1", Passengers: kit.VectorOf(1, 2, 2, 5)}})

	f, _ := m.Flight("FL1")
	f.Origin = "OUT" // short-haul (distance 500 >= break-even anyway); force it below break-even to isolate the outstation path
	f.PlannedDistance = 10
	f.ActualDistance = nil

	k := greedyLoad(f, cat, m, make(map[string]kit.Vector))
	passengers := f.Passengers()
	for c := 0; c < kit.NumClasses; c++ {
		if k[c] <= passengers[c] {
			t.Fatalf("class %d: expected outstation buffer above passenger count %d, got %d", c, passengers[c], k[c])
		}
	}
}

func TestGreedyLoadReservesAgainstSharedOriginInventory(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	// HUB holds only 15 of class First; two flights from HUB each want 40,
	// and aircraft capacity alone would grant each 10 — the second must be
	// clamped to 5 by what the first has already reserved.
	m.Inventory["HUB"] = kit.VectorOf(15, 50, 50, 50)
	f1, _ := m.Flight("FL1")
	f1.ActualPassengers = &kit.Vector{40, 0, 0, 0}
	f2 := &mirror.FlightState{
		ID: "FL2", Origin: "HUB", Destination: "OUT", AircraftTypeCode: "A1",
		PlannedPassengers: kit.VectorOf(40, 0, 0, 0), PlannedDistance: 500,
	}

	reserved := make(map[string]kit.Vector)
	k1 := greedyLoad(f1, cat, m, reserved)
	k2 := greedyLoad(f2, cat, m, reserved)

	if total := k1[kit.First] + k2[kit.First]; total > m.InventoryAt("HUB")[kit.First] {
		t.Fatalf("combined reservation %d exceeds HUB inventory %d", total, m.InventoryAt("HUB")[kit.First])
	}
}
