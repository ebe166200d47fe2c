package kit

import "fmt"

// Hour is an absolute simulation hour: day*24 + hour, per spec.md §3.
type Hour int

// NewHour builds an absolute hour from a day/hour pair as delivered by
// the evaluation server's {day, hour} fields.
func NewHour(day, hour int) Hour {
	return Hour(day*24 + hour)
}

// Day returns the zero-based simulation day.
func (h Hour) Day() int { return int(h) / 24 }

// HourOfDay returns the 0-23 hour within the day.
func (h Hour) HourOfDay() int { return int(h) % 24 }

func (h Hour) String() string {
	return fmt.Sprintf("day%d/h%d(abs=%d)", h.Day(), h.HourOfDay(), int(h))
}

// Add returns h shifted forward by n hours (n may be negative).
func (h Hour) Add(n int) Hour { return h + Hour(n) }

// GameEndHour is the session length named throughout spec.md (720 hours).
const GameEndHour Hour = 720
