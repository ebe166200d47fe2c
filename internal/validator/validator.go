// Package validator implements the Validator (C7): a last clamp-and-
// repair pass over the optimizer's decision before it is submitted to
// the evaluation server, generalized from the teacher's validate-then-
// sanitize request-middleware shape (spec.md §4.7).
package validator

import (
	"fmt"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/costmodel"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/mirror"
	"iaros/kitlogistics/internal/optimizer"
)

// Validate checks decision against the mirror's current state and the
// catalog's static bounds and returns a repaired copy in the report's
// RepairedDecisions (decision itself is left unchanged), with every
// applied repair listed as a warning (recoverable) or error
// (round-aborting).
func Validate(m *mirror.MirrorState, cat *catalog.Catalog, decision optimizer.Decision, maxPerOrder int) ValidationReport {
	report := ValidationReport{
		RepairedDecisions: optimizer.Decision{Loads: make(map[string]kit.Vector, len(decision.Loads))},
	}

	for flightID, k := range decision.Loads {
		f, ok := m.Flight(flightID)
		if !ok {
			report.Warnings = append(report.Warnings, fmt.Sprintf("dropped load for unknown flight %s", flightID))
			report.IncorrectLoadPenalty = report.IncorrectLoadPenalty.Add(costmodel.IncorrectLoadPenalty())
			continue
		}
		if f.Phase >= mirror.Departed {
			report.Warnings = append(report.Warnings, fmt.Sprintf("dropped load for already-departed flight %s", flightID))
			report.IncorrectLoadPenalty = report.IncorrectLoadPenalty.Add(costmodel.IncorrectLoadPenalty())
			continue
		}
		aircraft, ok := cat.Aircraft(f.AircraftTypeCode)
		if !ok {
			report.Warnings = append(report.Warnings, fmt.Sprintf("dropped load for flight %s: unknown aircraft type %s", flightID, f.AircraftTypeCode))
			report.IncorrectLoadPenalty = report.IncorrectLoadPenalty.Add(costmodel.IncorrectLoadPenalty())
			continue
		}

		clamped := k
		for c := 0; c < kit.NumClasses; c++ {
			if clamped[c] < 0 {
				clamped[c] = 0
			}
			if clamped[c] > aircraft.KitCapacity[c] {
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"flight %s class %d clamped from %d to aircraft capacity %d", flightID, c, clamped[c], aircraft.KitCapacity[c]))
				clamped[c] = aircraft.KitCapacity[c]
			}
		}

		originInv := m.InventoryAt(f.Origin)
		for c := 0; c < kit.NumClasses; c++ {
			if available := originInv[c]; clamped[c] > available {
				repaired := available
				if repaired < 0 {
					repaired = 0
				}
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"flight %s class %d clamped from %d to available origin inventory %d", flightID, c, clamped[c], repaired))
				clamped[c] = repaired
			}
		}

		report.RepairedDecisions.Loads[flightID] = clamped
	}

	purchases := decision.Purchases
	if !purchases.IsZero() {
		if _, ok := cat.Hub(); !ok {
			report.Errors = append(report.Errors, "purchase order present but no hub airport is configured")
		}
	}
	for c := 0; c < kit.NumClasses; c++ {
		if purchases[c] < 0 {
			purchases[c] = 0
		}
		if purchases[c] > maxPerOrder {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"purchase class %d clamped from %d to per-class max %d", c, purchases[c], maxPerOrder))
			purchases[c] = maxPerOrder
		}
	}
	report.RepairedDecisions.Purchases = purchases

	return report
}
