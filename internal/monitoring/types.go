package monitoring

import (
	"iaros/kitlogistics/internal/events"
	"iaros/kitlogistics/internal/kit"
)

// StatusResponse is the GET /status wire shape (spec.md §6.3).
type StatusResponse struct {
	State               string            `json:"state"`
	Round               int               `json:"round"`
	Day                 int               `json:"day"`
	Hour                int               `json:"hour"`
	TotalCost           float64           `json:"total_cost"`
	CumulativeDecisions int               `json:"cumulative_decisions"`
	CumulativePurchases kit.WireVector    `json:"cumulative_purchases"`
	RecentPenalties     []events.Penalty  `json:"recent_penalties"`
}

// InventoryResponse is the GET /inventory wire shape (spec.md §6.3).
type InventoryResponse struct {
	ByAirport map[string]kit.WireVector `json:"by_airport"`
}

// HistoryEntry is one row of the GET /history?limit=N response.
type HistoryEntry struct {
	Round              int               `json:"round"`
	Time               string            `json:"time"`
	LoadsSubmitted     map[string]kit.WireVector `json:"loads_submitted"`
	PurchasesSubmitted kit.WireVector    `json:"purchases_submitted"`
	RoundTotalCost     float64           `json:"round_total_cost"`
	Penalties          []events.Penalty  `json:"penalties"`
}
