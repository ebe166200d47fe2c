package events

import (
	"testing"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var kitMeta [kit.NumClasses]catalog.KitClassMeta
	hub := catalog.Airport{Code: "HUB", IsHub: true, StorageCapacity: kit.VectorOf(100, 100, 100, 100), InitialInventory: kit.VectorOf(50, 50, 50, 50)}
	out := catalog.Airport{Code: "OUT", StorageCapacity: kit.VectorOf(100, 100, 100, 100), InitialInventory: kit.VectorOf(20, 20, 20, 20)}
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

func TestIngestAppliesEventsAndAdvancesClock(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)

	resp := HourResponse{
		Day: 0, Hour: 4,
		FlightUpdates: []FlightEvent{
			{
				EventType: "CHECKED_IN", FlightID: "FL1", FlightNumber: "FL1",
				OriginAirport: "HUB", DestinationAirport: "OUT",
				Departure: DayHour{Day: 0, Hour: 5}, Arrival: DayHour{Day: 0, Hour: 8},
				Passengers: kit.WireVector{First: 1, Business: 2, PremiumEconomy: 3, Economy: 4},
				AircraftType: "A1", Distance: 500,
			},
		},
		TotalCost: 123.45,
	}

	obs, err := Ingest(m, resp)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if obs.CumulativeCost != 123.45 {
		t.Fatalf("CumulativeCost = %v", obs.CumulativeCost)
	}
	if m.CurrentHour != kit.NewHour(0, 5) {
		t.Fatalf("expected clock to advance to hour 5, got %v", m.CurrentHour)
	}
	// FL1 is scheduled to depart at hour 5, so once the clock reaches
	// hour 5 the checked-in flight has departed; a CHECKED_IN event that
	// was not applied would have left it ANNOUNCED instead.
	f, ok := m.Flight("FL1")
	if !ok || f.Phase != mirror.Departed {
		t.Fatalf("expected FL1 checked in and then DEPARTED at hour 5, got %+v", f)
	}
}

func TestIngestRejectsUnknownEventType(t *testing.T) {
	cat := testCatalog(t)
	m := mirror.New(cat, nil)
	resp := HourResponse{
		Day: 0, Hour: 0,
		FlightUpdates: []FlightEvent{{EventType: "BOGUS", FlightID: "FL1"}},
	}
	if _, err := Ingest(m, resp); err == nil {
		t.Fatalf("expected error for unrecognized eventType")
	}
}
