package optimizer

import (
	"testing"
	"time"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/horizon"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var kitMeta [kit.NumClasses]catalog.KitClassMeta
	kitMeta[kit.First] = catalog.KitClassMeta{Cost: 500, WeightKG: 5, LeadTimeHours: 48}
	kitMeta[kit.Business] = catalog.KitClassMeta{Cost: 300, WeightKG: 4, LeadTimeHours: 24}
	kitMeta[kit.PremiumEconomy] = catalog.KitClassMeta{Cost: 100, WeightKG: 2, LeadTimeHours: 12}
	kitMeta[kit.Economy] = catalog.KitClassMeta{Cost: 50, WeightKG: 1, LeadTimeHours: 6}

	hub := catalog.Airport{
		Code: "HUB", IsHub: true,
		StorageCapacity:  kit.VectorOf(200, 200, 200, 200),
		LoadingCost:      kit.VectorOf(10, 10, 10, 10),
		ProcessingCost:   kit.VectorOf(5, 5, 5, 5),
		ProcessingHours:  [kit.NumClasses]int{2, 2, 2, 2},
		InitialInventory: kit.VectorOf(50, 50, 50, 50),
	}
	out := catalog.Airport{
		Code: "OUT",
		StorageCapacity:  kit.VectorOf(100, 100, 100, 100),
		LoadingCost:      kit.VectorOf(10, 10, 10, 10),
		ProcessingCost:   kit.VectorOf(5, 5, 5, 5),
		ProcessingHours:  [kit.NumClasses]int{2, 2, 2, 2},
		InitialInventory: kit.VectorOf(20, 20, 20, 20),
	}
	aircraft := catalog.AircraftType{Code: "A1", KitCapacity: kit.VectorOf(10, 10, 10, 10), FuelCostPerKM: 0.01}

	fl := catalog.FlightTemplate{
		ID: "FL1", Origin: "HUB", Destination: "OUT",
		ScheduledDeparture: kit.NewHour(0, 2), ScheduledArrival: kit.NewHour(0, 5),
		AircraftTypeCode: "A1", PlannedPassengers: kit.VectorOf(1, 2, 2, 5), PlannedDistance: 500,
	}

	cat, err := catalog.New([]catalog.Airport{hub, out}, []catalog.AircraftType{aircraft}, kitMeta, []catalog.FlightTemplate{fl})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func testConfig() Config {
	return Config{
		Deadline:             200 * time.Millisecond,
		PopulationSize:       12,
		NoImprovementLimit:   5,
		MutationRate:         0.15,
		Seed:                 42,
		PurchaseHorizonHours: 72,
	}
}

func TestOptimizeProducesLoadForEveryLoadableFlight(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	m.ApplyEvents([]mirror.Event{{Type: mirror.EventCheckedIn, FlightID: "FL1", Passengers: kit.VectorOf(1, 2, 2, 5)}})

	view := horizon.Build(m, cat, horizon.Config{LoadHorizonHours: 6, PurchaseHorizonHours: 72})
	decision := Optimize(m, cat, view, testConfig())

	if _, ok := decision.Loads["FL1"]; !ok {
		t.Fatalf("expected a load decision for FL1, got %+v", decision.Loads)
	}
}

func TestOptimizeNeverExceedsAircraftCapacity(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	m.ApplyEvents([]mirror.Event{{Type: mirror.EventCheckedIn, FlightID: "FL1", Passengers: kit.VectorOf(1, 2, 2, 5)}})

	view := horizon.Build(m, cat, horizon.Config{LoadHorizonHours: 6, PurchaseHorizonHours: 72})
	decision := Optimize(m, cat, view, testConfig())

	aircraft, _ := cat.Aircraft("A1")
	k := decision.Loads["FL1"]
	for c := 0; c < kit.NumClasses; c++ {
		if k[c] > aircraft.KitCapacity[c] {
			t.Fatalf("class %d loaded %d exceeds capacity %d", c, k[c], aircraft.KitCapacity[c])
		}
		if k[c] < 0 {
			t.Fatalf("class %d loaded negative: %d", c, k[c])
		}
	}
}

func TestOptimizeWithNoLoadableFlightsStillSizesPurchase(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)

	view := horizon.Build(m, cat, horizon.Config{LoadHorizonHours: 1, PurchaseHorizonHours: 72})
	decision := Optimize(m, cat, view, testConfig())

	if len(decision.Loads) != 0 {
		t.Fatalf("expected no load decisions, got %+v", decision.Loads)
	}
	if want := purchasePolicy(m, cat, view); decision.Purchases != want {
		t.Fatalf("expected purchase sized by the purchase policy %+v, got %+v", want, decision.Purchases)
	}
}

func TestOptimizeIsDeterministicGivenSameSeed(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	m.ApplyEvents([]mirror.Event{{Type: mirror.EventCheckedIn, FlightID: "FL1", Passengers: kit.VectorOf(1, 2, 2, 5)}})
	view := horizon.Build(m, cat, horizon.Config{LoadHorizonHours: 6, PurchaseHorizonHours: 72})

	cfg := testConfig()
	d1 := Optimize(m, cat, view, cfg)
	d2 := Optimize(m, cat, view, cfg)

	if d1.Loads["FL1"] != d2.Loads["FL1"] {
		t.Fatalf("optimizer not deterministic for same seed: %+v vs %+v", d1.Loads["FL1"], d2.Loads["FL1"])
	}
	if d1.Purchases != d2.Purchases {
		t.Fatalf("purchase decision not deterministic for same seed: %+v vs %+v", d1.Purchases, d2.Purchases)
	}
}
