package orchestrator

import (
	"time"

	"iaros/kitlogistics/internal/events"
	"iaros/kitlogistics/internal/kit"
)

// State is one of spec.md §4.8's six round-loop states.
type State int

const (
	Idle State = iota
	Starting
	Running
	Stopping
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Starting:
		return "STARTING"
	case Running:
		return "RUNNING"
	case Stopping:
		return "STOPPING"
	case Done:
		return "DONE"
	case Failed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// RoundResult is one completed tick's record, retained for the
// monitoring surface's history endpoint (spec.md §6.3).
type RoundResult struct {
	Round              int
	Day                int
	Hour               int
	SubmittedAt        time.Time
	RoundTotalCost     float64
	Penalties          []events.Penalty
	LoadsSubmitted     map[string]kit.Vector
	PurchasesSubmitted kit.Vector
}

// Snapshot is the lock-free, copy-on-read summary the monitoring REST
// surface consumes (spec.md §5, §6.3): production is cheap, so C8
// rebuilds and atomically swaps one after every tick rather than
// locking readers against the live orchestrator.
type Snapshot struct {
	State               State
	Round               int
	Day                 int
	Hour                int
	TotalCost           float64
	CumulativeDecisions int
	CumulativePurchases kit.Vector
	RecentPenalties     []events.Penalty
	InventoryByAirport  map[string]kit.Vector
	History             []RoundResult
}
