package transport

import "iaros/kitlogistics/internal/kit"

// StartSessionResponse is the server's response to POST /session/start
// (spec.md §6.1).
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

// FlightLoad is one entry of a /play/round request's flightLoads list.
type FlightLoad struct {
	FlightID   string        `json:"flightId"`
	LoadedKits kit.WireVector `json:"loadedKits"`
}

// PlayRoundRequest is the request body for POST /play/round (spec.md §6.1).
type PlayRoundRequest struct {
	Day                 int            `json:"day"`
	Hour                int            `json:"hour"`
	FlightLoads         []FlightLoad   `json:"flightLoads"`
	KitPurchasingOrders kit.WireVector `json:"kitPurchasingOrders"`
}
