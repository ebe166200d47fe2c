package mirror

import (
	"encoding/json"
	"testing"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var kitMeta [kit.NumClasses]catalog.KitClassMeta
	kitMeta[kit.First] = catalog.KitClassMeta{Class: kit.First, Cost: 500, LeadTimeHours: 48}
	kitMeta[kit.Business] = catalog.KitClassMeta{Class: kit.Business, Cost: 300, LeadTimeHours: 24}
	kitMeta[kit.PremiumEconomy] = catalog.KitClassMeta{Class: kit.PremiumEconomy, Cost: 150, LeadTimeHours: 12}
	kitMeta[kit.Economy] = catalog.KitClassMeta{Class: kit.Economy, Cost: 50, LeadTimeHours: 6}

	hub := catalog.Airport{
		Code: "HUB", IsHub: true,
		StorageCapacity:  kit.VectorOf(100, 100, 100, 100),
		InitialInventory: kit.VectorOf(50, 50, 50, 50),
		ProcessingHours:  [kit.NumClasses]int{2, 2, 2, 2},
	}
	out := catalog.Airport{
		Code: "OUT",
		StorageCapacity:  kit.VectorOf(100, 100, 100, 100),
		InitialInventory: kit.VectorOf(20, 20, 20, 20),
		ProcessingHours:  [kit.NumClasses]int{1, 1, 1, 1},
	}
	aircraft := catalog.AircraftType{Code: "A1", KitCapacity: kit.VectorOf(10, 10, 10, 10)}
	flight := catalog.FlightTemplate{
		ID: "FL1", Origin: "HUB", Destination: "OUT",
		ScheduledDeparture: kit.NewHour(0, 5),
		ScheduledArrival:   kit.NewHour(0, 8),
		AircraftTypeCode:   "A1",
		PlannedPassengers:  kit.VectorOf(1, 2, 3, 4),
		PlannedDistance:    500,
	}

	cat, err := catalog.New([]catalog.Airport{hub, out}, []catalog.AircraftType{aircraft}, kitMeta, []catalog.FlightTemplate{flight})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestConservationHoldsAcrossCommitAndAdvance(t *testing.T) {
	cat := testCatalog(t)
	m := New(cat, nil)

	if err := m.CommitLoad("FL1", kit.VectorOf(5, 5, 5, 5)); err != nil {
		t.Fatalf("CommitLoad: %v", err)
	}
	if err := m.CommitPurchase(cat, kit.VectorOf(10, 0, 0, 0)); err != nil {
		t.Fatalf("CommitPurchase: %v", err)
	}

	f, _ := m.Flight("FL1")
	f.Phase = CheckedIn

	m.AdvanceTo(kit.NewHour(5, 0))

	lhs, rhs := m.ConservationBalance()
	if lhs != rhs {
		t.Fatalf("conservation violated: lhs=%v rhs=%v", lhs, rhs)
	}
}

func TestAdvanceToIsMonotonic(t *testing.T) {
	cat := testCatalog(t)
	m := New(cat, nil)
	m.AdvanceTo(kit.NewHour(1, 0))
	first := m.CurrentHour
	m.AdvanceTo(kit.NewHour(0, 0)) // going "backward" must be a no-op
	if m.CurrentHour != first {
		t.Fatalf("AdvanceTo moved backward: %v -> %v", first, m.CurrentHour)
	}
	m.AdvanceTo(kit.NewHour(2, 0))
	if m.CurrentHour <= first {
		t.Fatalf("AdvanceTo did not move forward: %v -> %v", first, m.CurrentHour)
	}
}

func TestJSONRoundTripPreservesState(t *testing.T) {
	cat := testCatalog(t)
	m := New(cat, nil)
	_ = m.CommitLoad("FL1", kit.VectorOf(3, 0, 0, 0))
	m.AdvanceTo(kit.NewHour(0, 1))

	buf, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored MirrorState
	if err := json.Unmarshal(buf, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored.AttachCatalog(cat, nil)

	if restored.CurrentHour != m.CurrentHour {
		t.Fatalf("CurrentHour mismatch: %v vs %v", restored.CurrentHour, m.CurrentHour)
	}
	if restored.Inventory["HUB"] != m.Inventory["HUB"] {
		t.Fatalf("Inventory mismatch: %v vs %v", restored.Inventory["HUB"], m.Inventory["HUB"])
	}
	f, _ := restored.Flight("FL1")
	if f.CommittedLoad != kit.VectorOf(3, 0, 0, 0) {
		t.Fatalf("CommittedLoad lost across round-trip: %v", f.CommittedLoad)
	}
}

func TestApplyEventsIndependentOfBatching(t *testing.T) {
	cat := testCatalog(t)
	m1 := New(cat, nil)
	m2 := New(cat, nil)

	scheduled := Event{
		Type: EventScheduled, FlightID: "FL2", Origin: "HUB", Destination: "OUT",
		ScheduledDeparture: kit.NewHour(0, 2), ScheduledArrival: kit.NewHour(0, 4),
		AircraftTypeCode: "A1", Passengers: kit.VectorOf(1, 1, 1, 1), Distance: 400,
	}
	checkedIn := Event{Type: EventCheckedIn, FlightID: "FL2", Passengers: kit.VectorOf(2, 2, 2, 2)}

	m1.ApplyEvents([]Event{scheduled, checkedIn})
	m2.ApplyEvents([]Event{scheduled})
	m2.ApplyEvents([]Event{checkedIn})

	f1, _ := m1.Flight("FL2")
	f2, _ := m2.Flight("FL2")
	if f1.Phase != f2.Phase || f1.Passengers() != f2.Passengers() {
		t.Fatalf("batched vs sequential application diverged: %+v vs %+v", f1, f2)
	}
}

func TestCheckedInFlightRemainsLoadableSameRound(t *testing.T) {
	cat := testCatalog(t)
	m := New(cat, nil)
	m.ApplyEvents([]Event{{Type: EventCheckedIn, FlightID: "FL1", Passengers: kit.VectorOf(2, 2, 2, 2)}})

	if err := m.CommitLoad("FL1", kit.VectorOf(4, 4, 4, 4)); err != nil {
		t.Fatalf("expected CHECKED_IN flight to remain loadable, got error: %v", err)
	}
}

func TestPurchaseDeliveryTimingIncludesHubProcessing(t *testing.T) {
	cat := testCatalog(t)
	m := New(cat, nil)
	if err := m.CommitPurchase(cat, kit.VectorOf(0, 0, 0, 5)); err != nil {
		t.Fatalf("CommitPurchase: %v", err)
	}

	leadTime := cat.KitMeta(kit.Economy).LeadTimeHours
	hub, _ := cat.Hub()
	wantReady := kit.Hour(0).Add(leadTime + hub.ProcessingHours[kit.Economy])

	m.AdvanceTo(wantReady.Add(-1))
	before := m.Inventory["HUB"][kit.Economy]
	m.AdvanceTo(wantReady)
	after := m.Inventory["HUB"][kit.Economy]
	if after != before+5 {
		t.Fatalf("purchase delivered at wrong hour: before=%d after=%d want +5", before, after)
	}
}

func TestUnknownFlightRecordsAnomaly(t *testing.T) {
	cat := testCatalog(t)
	m := New(cat, nil)
	m.ApplyEvents([]Event{{Type: EventCheckedIn, FlightID: "GHOST"}})
	if len(m.Anomalies) != 1 || m.Anomalies[0].Kind != UnknownFlight {
		t.Fatalf("expected one UnknownFlight anomaly, got %+v", m.Anomalies)
	}
}

func TestPhaseRegressionRecordsAnomaly(t *testing.T) {
	cat := testCatalog(t)
	m := New(cat, nil)
	m.ApplyEvents([]Event{{Type: EventCheckedIn, FlightID: "FL1"}})
	m.ApplyEvents([]Event{{Type: EventLanded, FlightID: "FL1", ScheduledArrival: kit.NewHour(0, 8)}})
	m.ApplyEvents([]Event{{Type: EventCheckedIn, FlightID: "FL1"}})

	found := false
	for _, a := range m.Anomalies {
		if a.Kind == PhaseRegression {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PhaseRegression anomaly, got %+v", m.Anomalies)
	}
}
