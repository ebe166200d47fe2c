// Package horizon implements the Horizon View (C5): read-only queries
// over the mirror's current projection, windowed by the tactical
// (loading) and strategic (purchasing) horizons (spec.md §4.5).
package horizon

import (
	"sort"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

// Config carries the two rolling-window sizes, tactical (loading) and
// strategic (purchasing). Defaults live in internal/config.
type Config struct {
	LoadHorizonHours     int
	PurchaseHorizonHours int
}

// View is the snapshot C6 consumes for one optimization pass.
type View struct {
	CurrentHour     kit.Hour
	LoadableFlights []*mirror.FlightState
	ForecastDemand  kit.Vector
}

// Build produces the horizon view for the mirror's current hour
// (spec.md §4.5).
func Build(m *mirror.MirrorState, cat *catalog.Catalog, cfg Config) View {
	h := m.CurrentHour
	v := View{CurrentHour: h}
	v.LoadableFlights = loadableFlights(m, h, cfg.LoadHorizonHours)
	v.ForecastDemand = forecastDemand(m, cat, h, cfg.PurchaseHorizonHours)
	return v
}

// loadableFlights returns every CHECKED_IN flight whose
// scheduled_departure falls in [h, h+Hload), sorted by departure then
// id for deterministic optimizer input (spec.md §4.5, I4).
func loadableFlights(m *mirror.MirrorState, h kit.Hour, loadHorizon int) []*mirror.FlightState {
	upper := h.Add(loadHorizon)
	var out []*mirror.FlightState
	for _, f := range m.AllFlights() {
		if f.Phase != mirror.CheckedIn {
			continue
		}
		if f.ScheduledDeparture < h || f.ScheduledDeparture >= upper {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledDeparture != out[j].ScheduledDeparture {
			return out[i].ScheduledDeparture < out[j].ScheduledDeparture
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// forecastDemand sums the best-available passenger vector of every
// flight departing within [h, h+Hpurchase), excluding per-class demand
// a purchase placed right now could never reach (spec.md §4.5).
func forecastDemand(m *mirror.MirrorState, cat *catalog.Catalog, h kit.Hour, purchaseHorizon int) kit.Vector {
	hub, ok := cat.Hub()
	if !ok {
		return kit.Vector{}
	}
	upper := h.Add(purchaseHorizon)

	var total kit.Vector
	for _, f := range m.AllFlights() {
		if f.ScheduledDeparture < h || f.ScheduledDeparture >= upper {
			continue
		}
		passengers := f.Passengers()
		for c := 0; c < kit.NumClasses; c++ {
			meta := cat.KitMeta(kit.Class(c))
			earliestReachable := h.Add(meta.LeadTimeHours + hub.ProcessingHours[c])
			if f.ScheduledDeparture < earliestReachable {
				continue
			}
			total[c] += passengers[c]
		}
	}
	return total
}
