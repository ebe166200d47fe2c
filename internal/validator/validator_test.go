package validator

import (
	"testing"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
	"iaros/kitlogistics/internal/optimizer"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var kitMeta [kit.NumClasses]catalog.KitClassMeta
	hub := catalog.Airport{
		Code: "HUB", IsHub: true,
		StorageCapacity:  kit.VectorOf(100, 100, 100, 100),
		InitialInventory: kit.VectorOf(3, 3, 3, 3),
	}
	out := catalog.Airport{Code: "OUT", StorageCapacity: kit.VectorOf(100, 100, 100, 100)}
	aircraft := catalog.AircraftType{Code: "A1", KitCapacity: kit.VectorOf(5, 5, 5, 5)}
	fl := catalog.FlightTemplate{
		ID: "FL1", Origin: "HUB", Destination: "OUT",
		ScheduledDeparture: kit.NewHour(0, 5), ScheduledArrival: kit.NewHour(0, 8),
		AircraftTypeCode: "A1", PlannedPassengers: kit.VectorOf(1, 1, 1, 1),
	}
	cat, err := catalog.New([]catalog.Airport{hub, out}, []catalog.AircraftType{aircraft}, kitMeta, []catalog.FlightTemplate{fl})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestValidateDropsUnknownFlight(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	decision := optimizer.Decision{Loads: map[string]kit.Vector{"GHOST": kit.VectorOf(1, 1, 1, 1)}}

	report := Validate(m, cat, decision, 42000)
	if !report.OK() {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", report.Warnings)
	}
	if _, ok := report.RepairedDecisions.Loads["GHOST"]; ok {
		t.Fatalf("unknown flight should have been dropped from repaired decision")
	}
}

func TestValidateClampsToAircraftCapacity(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	// Stock HUB above the aircraft capacity so only the capacity clamp applies.
	m.Inventory["HUB"] = kit.VectorOf(20, 20, 20, 20)
	decision := optimizer.Decision{Loads: map[string]kit.Vector{"FL1": kit.VectorOf(10, 0, 0, 0)}}

	report := Validate(m, cat, decision, 42000)
	if got := report.RepairedDecisions.Loads["FL1"][kit.First]; got != 5 {
		t.Fatalf("expected clamp to aircraft capacity 5, got %d", got)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected one capacity-clamp warning, got %v", report.Warnings)
	}
}

func TestValidateClampsToOriginInventory(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	// HUB only has 3 of each class on hand; request 5 (within aircraft
	// capacity but beyond available inventory).
	decision := optimizer.Decision{Loads: map[string]kit.Vector{"FL1": kit.VectorOf(5, 0, 0, 0)}}

	report := Validate(m, cat, decision, 42000)
	if got := report.RepairedDecisions.Loads["FL1"][kit.First]; got != 3 {
		t.Fatalf("expected clamp to origin inventory 3, got %d", got)
	}
}

func TestValidateClampsPurchaseToPerClassMax(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	decision := optimizer.Decision{Purchases: kit.VectorOf(50000, 0, 0, 0)}

	report := Validate(m, cat, decision, 42000)
	if got := report.RepairedDecisions.Purchases[kit.First]; got != 42000 {
		t.Fatalf("expected purchase clamp to 42000, got %d", got)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected one purchase-clamp warning, got %v", report.Warnings)
	}
}

func TestValidateTalliesIncorrectLoadPenaltyForUnknownFlight(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	decision := optimizer.Decision{Loads: map[string]kit.Vector{"GHOST": kit.VectorOf(1, 1, 1, 1)}}

	report := Validate(m, cat, decision, 42000)
	if report.IncorrectLoadPenalty.IsZero() {
		t.Fatalf("expected a non-zero incorrect-load penalty for an unknown flight reference")
	}
}

func TestValidateDropsAlreadyDepartedFlight(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	m.ApplyEvents([]mirror.Event{{Type: mirror.EventCheckedIn, FlightID: "FL1", Passengers: kit.VectorOf(1, 1, 1, 1)}})
	m.AdvanceTo(kit.NewHour(0, 5)) // departs FL1

	decision := optimizer.Decision{Loads: map[string]kit.Vector{"FL1": kit.VectorOf(1, 0, 0, 0)}}
	report := Validate(m, cat, decision, 42000)
	if _, ok := report.RepairedDecisions.Loads["FL1"]; ok {
		t.Fatalf("departed flight should have been dropped from repaired decision")
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected one departed-flight warning, got %v", report.Warnings)
	}
}
