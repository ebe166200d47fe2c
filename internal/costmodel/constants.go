// Package costmodel implements the Cost/Penalty Model (C2): pure,
// referentially transparent functions over plain data, in the shape of
// the teacher's DynamicPricingEngine staged breakdown — one function
// per adjustment, business-rule constants pulled out as named fields
// rather than inlined magic numbers (spec.md §4.2).
package costmodel

// Calibration constants. NegFactor and OverFactor are flat per-kit
// constants; UnfulFactor and OverloadFactor scale with distance.
// UnfulFactor and OverloadFactor are the values scenario S3 uses
// (spec.md §4.2: OVERLOAD_FACTOR=5 must dominate UNFUL_FACTOR·fuel so
// the optimizer prefers an unfulfilled penalty over an overload one);
// NegFactor, OverFactor, IncorrectFactor and EndOfGameMultiplier are
// calibration choices of this implementation, with NegFactor set well
// above OverFactor.
const (
	NegFactor           = 1000.0
	OverFactor          = 50.0
	UnfulFactor         = 0.003
	OverloadFactor      = 5.0
	IncorrectFactor     = 500.0
	EndOfGameMultiplier = 3.0
)

// BreakEvenDistanceKM is the flight distance at which the cost of
// loading one extra kit equals the expected unfulfilled penalty for
// one unit of shortfall: 1/UnfulFactor ≈ 333 km under this
// calibration. It is a heuristic default for the optimizer, not a
// hard rule (spec.md §4.2).
const BreakEvenDistanceKM = 1.0 / UnfulFactor
