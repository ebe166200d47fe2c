// Package kit defines the closed service-class enum and the fixed-width
// per-class vector used throughout the kit logistics engine.
package kit

import "fmt"

// Class is one of the four rotable-kit service classes, in fixed order.
type Class int

const (
	First Class = iota
	Business
	PremiumEconomy
	Economy

	NumClasses = 4
)

var classNames = [NumClasses]string{"FIRST", "BUSINESS", "PREMIUM_ECONOMY", "ECONOMY"}

// AllClasses returns the four classes in their fixed enumeration order.
func AllClasses() [NumClasses]Class {
	return [NumClasses]Class{First, Business, PremiumEconomy, Economy}
}

func (c Class) String() string {
	if c < 0 || int(c) >= NumClasses {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// ParseClass maps the wire protocol's camelCase field names to a Class.
func ParseClass(wire string) (Class, error) {
	switch wire {
	case "first":
		return First, nil
	case "business":
		return Business, nil
	case "premiumEconomy":
		return PremiumEconomy, nil
	case "economy":
		return Economy, nil
	}
	return 0, fmt.Errorf("kit: unknown class %q", wire)
}

// WireName returns the wire protocol's camelCase field name for this class.
func (c Class) WireName() string {
	switch c {
	case First:
		return "first"
	case Business:
		return "business"
	case PremiumEconomy:
		return "premiumEconomy"
	case Economy:
		return "economy"
	}
	return ""
}
