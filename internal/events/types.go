// Package events implements the Event Ingestor (C4): it translates the
// evaluation server's per-round response into the mirror's transport-
// agnostic event list and drives the mirror's clock forward, per
// spec.md §4.4.
package events

import "iaros/kitlogistics/internal/kit"

// DayHour is the wire protocol's {day, hour} pair, used for both
// scheduled and actual timestamps in FlightEvent.
type DayHour struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// ToHour converts the wire pair to an absolute kit.Hour.
func (d DayHour) ToHour() kit.Hour {
	return kit.NewHour(d.Day, d.Hour)
}

// FlightEvent is the wire shape of one entry in a round response's
// flightUpdates list (spec.md §6.1).
type FlightEvent struct {
	EventType         string        `json:"eventType"`
	FlightNumber      string        `json:"flightNumber"`
	FlightID          string        `json:"flightId"`
	OriginAirport     string        `json:"originAirport"`
	DestinationAirport string       `json:"destinationAirport"`
	Departure         DayHour       `json:"departure"`
	Arrival           DayHour       `json:"arrival"`
	Passengers        kit.WireVector `json:"passengers"`
	AircraftType      string        `json:"aircraftType"`
	Distance          float64       `json:"distance"`
}

// Penalty is one server-issued penalty line item, observation-only
// (spec.md §4.4: "never back-propagate into inventory").
type Penalty struct {
	Code         string  `json:"code"`
	FlightID     string  `json:"flightId,omitempty"`
	FlightNumber string  `json:"flightNumber,omitempty"`
	IssuedDay    int     `json:"issuedDay"`
	IssuedHour   int     `json:"issuedHour"`
	Penalty      float64 `json:"penalty"`
	Reason       string  `json:"reason"`
}

// HourResponse is the server's response to /play/round and /session/end
// (spec.md §6.1's HourResponseDto).
type HourResponse struct {
	Day           int           `json:"day"`
	Hour          int           `json:"hour"`
	FlightUpdates []FlightEvent `json:"flightUpdates"`
	Penalties     []Penalty     `json:"penalties"`
	TotalCost     float64       `json:"totalCost"`
}

const (
	wireScheduled = "SCHEDULED"
	wireCheckedIn = "CHECKED_IN"
	wireLanded    = "LANDED"
)
