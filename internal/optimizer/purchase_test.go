package optimizer

import (
	"testing"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/horizon"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

func TestPurchasePolicyClampsToHubStorageCapacity(t *testing.T) {
	kitMeta := [kit.NumClasses]catalog.KitClassMeta{
		kit.First:          {Cost: 500, WeightKG: 5, LeadTimeHours: 48},
		kit.Business:       {Cost: 300, WeightKG: 4, LeadTimeHours: 24},
		kit.PremiumEconomy: {Cost: 100, WeightKG: 2, LeadTimeHours: 12},
		kit.Economy:        {Cost: 50, WeightKG: 1, LeadTimeHours: 6},
	}
	hub := catalog.Airport{
		Code: "HUB", IsHub: true,
		StorageCapacity:  kit.VectorOf(60, 200, 200, 200), // tight cap on FIRST
		ProcessingHours:  [kit.NumClasses]int{2, 2, 2, 2},
		InitialInventory: kit.VectorOf(50, 50, 50, 50),
	}
	out := catalog.Airport{Code: "OUT", StorageCapacity: kit.VectorOf(100, 100, 100, 100), ProcessingHours: [kit.NumClasses]int{2, 2, 2, 2}}
	aircraft := catalog.AircraftType{Code: "A1", KitCapacity: kit.VectorOf(10, 10, 10, 10)}
	fl := catalog.FlightTemplate{
		ID: "FL1", Origin: "HUB", Destination: "OUT",
		ScheduledDeparture: kit.NewHour(2, 12), ScheduledArrival: kit.NewHour(2, 15),
		AircraftTypeCode: "A1", PlannedPassengers: kit.VectorOf(100, 0, 0, 0), PlannedDistance: 500,
	}
	cat, err := catalog.New([]catalog.Airport{hub, out}, []catalog.AircraftType{aircraft}, kitMeta, []catalog.FlightTemplate{fl})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	m := mirror.New(cat, nil)
	view := horizon.Build(m, cat, horizon.Config{LoadHorizonHours: 6, PurchaseHorizonHours: 72})

	q := purchasePolicy(m, cat, view)

	// FL1 departs at hour 60, after a FIRST order placed now could arrive
	// (48h lead + 2h processing), so forecast demand for FIRST is large
	// (100 planned passengers) and the
	// raw safety-factored target would far exceed the hub's 60-unit
	// storage capacity net of the 50 already on hand; the seed must not
	// order past that headroom.
	if headroom := hub.StorageCapacity[kit.First] - m.InventoryAt("HUB")[kit.First]; q[kit.First] > headroom {
		t.Fatalf("purchase order %d for FIRST exceeds hub storage headroom %d", q[kit.First], headroom)
	}
}
