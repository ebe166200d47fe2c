package kit

import "testing"

func TestVectorArithmetic(t *testing.T) {
	a := VectorOf(1, 3, 2, 8)
	b := VectorOf(1, 1, 1, 1)

	if got := a.Add(b); got != VectorOf(2, 4, 3, 9) {
		t.Fatalf("Add = %v", got)
	}
	if got := a.Sub(b); got != VectorOf(0, 2, 1, 7) {
		t.Fatalf("Sub = %v", got)
	}
	if got := b.Sub(a); got.ClampNonNeg() != (Vector{}) {
		t.Fatalf("ClampNonNeg = %v", got.ClampNonNeg())
	}
	if got := a.Min(VectorOf(0, 5, 5, 5)); got != VectorOf(0, 3, 2, 5) {
		t.Fatalf("Min = %v", got)
	}
	if got := a.Max(VectorOf(0, 5, 5, 5)); got != VectorOf(1, 5, 5, 8) {
		t.Fatalf("Max = %v", got)
	}
	if a.Sum() != 14 {
		t.Fatalf("Sum = %d", a.Sum())
	}
	if VectorOf(0, 0, 0, 0).IsZero() != true {
		t.Fatalf("expected zero vector")
	}
}

func TestWireRoundTrip(t *testing.T) {
	v := VectorOf(1, 3, 2, 8)
	w := v.ToWire()
	if w.First != 1 || w.Business != 3 || w.PremiumEconomy != 2 || w.Economy != 8 {
		t.Fatalf("ToWire = %+v", w)
	}
	if got := w.ToVector(); got != v {
		t.Fatalf("round trip = %v, want %v", got, v)
	}
}

func TestParseClass(t *testing.T) {
	for _, c := range AllClasses() {
		got, err := ParseClass(c.WireName())
		if err != nil {
			t.Fatalf("ParseClass(%s): %v", c.WireName(), err)
		}
		if got != c {
			t.Fatalf("ParseClass(%s) = %v, want %v", c.WireName(), got, c)
		}
	}
	if _, err := ParseClass("bogus"); err == nil {
		t.Fatalf("expected error for bogus class")
	}
}
