package events

import (
	"fmt"

	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

// Observation carries the round response's authoritative figures that
// the mirror does not and must not derive itself: the server's own
// cumulative cost and the penalties it issued this round. These are
// recorded for reporting only (spec.md §4.4).
type Observation struct {
	Day             int
	Hour            int
	CumulativeCost  float64
	Penalties       []Penalty
}

// Ingest translates a round response into the mirror's event
// vocabulary, applies it, and advances the mirror's clock to
// current_server_hour + 1 (spec.md §4.4's "thin adapter" contract).
func Ingest(m *mirror.MirrorState, resp HourResponse) (*Observation, error) {
	mevents := make([]mirror.Event, 0, len(resp.FlightUpdates))
	for _, fe := range resp.FlightUpdates {
		ev, err := translate(fe)
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		mevents = append(mevents, ev)
	}

	m.ApplyEvents(mevents)

	serverHour := kit.NewHour(resp.Day, resp.Hour)
	m.AdvanceTo(serverHour.Add(1))

	return &Observation{
		Day:            resp.Day,
		Hour:           resp.Hour,
		CumulativeCost: resp.TotalCost,
		Penalties:      resp.Penalties,
	}, nil
}

func translate(fe FlightEvent) (mirror.Event, error) {
	base := mirror.Event{
		FlightID:           fe.FlightID,
		FlightNumber:       fe.FlightNumber,
		Origin:             fe.OriginAirport,
		Destination:        fe.DestinationAirport,
		ScheduledDeparture: fe.Departure.ToHour(),
		ScheduledArrival:   fe.Arrival.ToHour(),
		AircraftTypeCode:   fe.AircraftType,
		Distance:           fe.Distance,
		Passengers:         fe.Passengers.ToVector(),
	}

	switch fe.EventType {
	case wireScheduled:
		base.Type = mirror.EventScheduled
	case wireCheckedIn:
		base.Type = mirror.EventCheckedIn
	case wireLanded:
		base.Type = mirror.EventLanded
		arrival := fe.Arrival.ToHour()
		base.ActualArrival = &arrival
	default:
		return mirror.Event{}, fmt.Errorf("unrecognized eventType %q for flight %s", fe.EventType, fe.FlightID)
	}
	return base, nil
}
