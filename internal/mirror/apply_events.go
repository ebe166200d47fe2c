package mirror

import (
	"fmt"

	"iaros/kitlogistics/internal/kit"
)

// ApplyEvents applies a batch of flight events in the order the server
// delivered them (spec.md §4.3). It never returns an error: projection
// inconsistencies are recorded as Anomaly entries and the mirror keeps
// going, trusting the server's next response as authoritative.
func (m *MirrorState) ApplyEvents(events []Event) {
	for _, ev := range events {
		switch ev.Type {
		case EventScheduled:
			m.applyScheduled(ev)
		case EventCheckedIn:
			m.applyCheckedIn(ev)
		case EventLanded:
			m.applyLanded(ev)
		default:
			m.recordAnomaly(UnknownFlight, fmt.Sprintf("event for flight %s has unrecognized type %d", ev.FlightID, ev.Type))
		}
	}
}

func (m *MirrorState) applyScheduled(ev Event) {
	f, ok := m.Flights[ev.FlightID]
	if !ok {
		f = &FlightState{ID: ev.FlightID}
		m.Flights[ev.FlightID] = f
	} else if f.Phase > CheckedIn {
		// SCHEDULED arriving after the flight is already under way is a
		// regression; keep the existing (more advanced) state as truth.
		m.recordAnomaly(PhaseRegression, fmt.Sprintf("SCHEDULED received for flight %s already in phase %s", ev.FlightID, f.Phase))
		return
	}
	f.FlightNumber = ev.FlightNumber
	f.Origin = ev.Origin
	f.Destination = ev.Destination
	f.ScheduledDeparture = ev.ScheduledDeparture
	f.ScheduledArrival = ev.ScheduledArrival
	f.AircraftTypeCode = ev.AircraftTypeCode
	f.PlannedPassengers = ev.Passengers
	f.PlannedDistance = ev.Distance
	if f.Phase < Announced {
		f.Phase = Announced
	}
}

func (m *MirrorState) applyCheckedIn(ev Event) {
	f, ok := m.Flights[ev.FlightID]
	if !ok {
		m.recordAnomaly(UnknownFlight, fmt.Sprintf("CHECKED_IN received for unknown flight %s", ev.FlightID))
		return
	}
	if f.Phase > CheckedIn {
		m.recordAnomaly(PhaseRegression, fmt.Sprintf("CHECKED_IN received for flight %s already in phase %s", ev.FlightID, f.Phase))
		return
	}
	f.Phase = CheckedIn
	passengers := ev.Passengers
	f.ActualPassengers = &passengers
	// actual_distance is only ever set by LANDED (spec.md §9 open question #2).
}

func (m *MirrorState) applyLanded(ev Event) {
	f, ok := m.Flights[ev.FlightID]
	if !ok {
		m.recordAnomaly(UnknownFlight, fmt.Sprintf("LANDED received for unknown flight %s", ev.FlightID))
		return
	}
	if f.Phase == Landed {
		return // idempotent: duplicate LANDED for an already-landed flight
	}
	if f.Phase < CheckedIn {
		m.recordAnomaly(PhaseRegression, fmt.Sprintf("LANDED received for flight %s still in phase %s", ev.FlightID, f.Phase))
		return
	}

	if f.Phase == CheckedIn {
		// The explicit DEPARTED transition is normally performed by
		// advance_to when current_hour reaches scheduled_departure. If
		// LANDED arrives in the same batch before that boundary was
		// crossed (event delivery can outrun our own clock), perform it
		// here so inventory/movement bookkeeping stays consistent.
		m.departFlight(f, m.CurrentHour)
	}

	f.Phase = Landed
	arrival := ev.ScheduledArrival
	if ev.ActualArrival != nil {
		arrival = *ev.ActualArrival
	}
	f.ActualArrival = &arrival
	dist := ev.Distance
	if dist > 0 {
		f.ActualDistance = &dist
	}

	// The InTransit movement for this flight completes into Processing.
	destAirport, ok := m.cat.Airport(f.Destination)
	var processingHours [kit.NumClasses]int
	if ok {
		processingHours = destAirport.ProcessingHours
	}

	found := false
	remaining := make([]Movement, 0, len(m.Movements)+kit.NumClasses)
	for _, mv := range m.Movements {
		if mv.Kind == InTransit && mv.FlightID == f.ID {
			found = true
			for c := 0; c < kit.NumClasses; c++ {
				if mv.Quantities[c] == 0 {
					continue
				}
				readyHour := arrival.Add(processingHours[c])
				var q kit.Vector
				q[c] = mv.Quantities[c]
				remaining = append(remaining, Movement{
					Kind:       Processing,
					Airport:    f.Destination,
					ReadyHour:  readyHour,
					Quantities: q,
				})
			}
			continue
		}
		remaining = append(remaining, mv)
	}
	m.Movements = remaining
	if !found && !f.CommittedLoad.IsZero() {
		m.recordAnomaly(UnknownFlight, fmt.Sprintf("LANDED for flight %s had a committed load but no InTransit movement was pending", f.ID))
	}
}
