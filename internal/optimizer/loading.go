package optimizer

import (
	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/costmodel"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
)

// greedyLoad computes the deterministic baseline load for one flight:
// match its best-available passenger vector, clamped to aircraft kit
// capacity, with a one-unit buffer per class once the flight's
// distance clears the break-even point where an unfulfilled-passenger
// penalty outweighs the marginal cost of carrying one more kit, or
// once its origin is an outstation where kits can't be restocked
// (spec.md §4.2/§4.6). The result is further clamped to the origin's
// available inventory net of whatever reserved has already committed
// to earlier flights sharing that origin in this same seeding pass, so
// the baseline never promises more kits than the airport actually has.
func greedyLoad(f *mirror.FlightState, cat *catalog.Catalog, m *mirror.MirrorState, reserved map[string]kit.Vector) kit.Vector {
	aircraft, ok := cat.Aircraft(f.AircraftTypeCode)
	if !ok {
		return kit.Vector{}
	}
	origin, _ := cat.Airport(f.Origin)
	passengers := f.Passengers()
	distance := f.Distance()

	available := m.InventoryAt(f.Origin).Sub(reserved[f.Origin])

	var k kit.Vector
	for c := 0; c < kit.NumClasses; c++ {
		want := passengers[c]
		if distance >= costmodel.BreakEvenDistanceKM || !origin.IsHub {
			want++
		}
		if want > aircraft.KitCapacity[c] {
			want = aircraft.KitCapacity[c]
		}
		if want > available[c] {
			want = available[c]
		}
		if want < 0 {
			want = 0
		}
		k[c] = want
	}
	reserved[f.Origin] = reserved[f.Origin].Add(k)
	return k
}
