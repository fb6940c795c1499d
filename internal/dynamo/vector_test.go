package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAxesRoundTrip(t *testing.T) {
	v2 := mgl64.Vec2{3, -4}
	if got := FromAxes[mgl64.Vec2](Axes(v2)); got != v2 {
		t.Errorf("Vec2 round trip = %v, want %v", got, v2)
	}

	v3 := mgl64.Vec3{1, 2, 3}
	if got := FromAxes[mgl64.Vec3](Axes(v3)); got != v3 {
		t.Errorf("Vec3 round trip = %v, want %v", got, v3)
	}
}

func TestAxesIsCopy(t *testing.T) {
	v := mgl64.Vec2{1, 2}
	a := Axes(v)
	a[0] = 99
	if v[0] != 1 {
		t.Error("Axes must not alias the vector")
	}
}

func TestFromAxesShortAndLong(t *testing.T) {
	if got := FromAxes[mgl64.Vec3]([]float64{1}); got != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("short input = %v", got)
	}
	if got := FromAxes[mgl64.Vec2]([]float64{1, 2, 3}); got != (mgl64.Vec2{1, 2}) {
		t.Errorf("long input = %v", got)
	}
}

func TestDim(t *testing.T) {
	if Dim[mgl64.Vec2]() != 2 {
		t.Errorf("Dim Vec2 = %d", Dim[mgl64.Vec2]())
	}
	if Dim[mgl64.Vec3]() != 3 {
		t.Errorf("Dim Vec3 = %d", Dim[mgl64.Vec3]())
	}
}

func TestFiniteAndZero(t *testing.T) {
	tests := []struct {
		name   string
		v      mgl64.Vec3
		finite bool
		zero   bool
	}{
		{"zero", mgl64.Vec3{}, true, true},
		{"normal", mgl64.Vec3{1, 2, 3}, true, false},
		{"nan", mgl64.Vec3{math.NaN(), 0, 0}, false, false},
		{"inf", mgl64.Vec3{0, math.Inf(-1), 0}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Finite(tt.v); got != tt.finite {
				t.Errorf("Finite() = %v, want %v", got, tt.finite)
			}
			if got := IsZero(tt.v); got != tt.zero {
				t.Errorf("IsZero() = %v, want %v", got, tt.zero)
			}
		})
	}
}

func TestSplat(t *testing.T) {
	if got := Splat[mgl64.Vec3](2); got != (mgl64.Vec3{2, 2, 2}) {
		t.Errorf("Splat = %v", got)
	}
}

func TestRingOnUnitCircle(t *testing.T) {
	for _, p := range DefaultTrigTable.Ring(32) {
		r := math.Hypot(p[0], p[1])
		if math.Abs(r-1) > 1e-3 {
			t.Fatalf("ring point %v has radius %f", p, r)
		}
	}
	if n := len(DefaultTrigTable.Ring(1)); n != 3 {
		t.Errorf("degenerate ring size = %d, want 3", n)
	}
}

func TestColorHex(t *testing.T) {
	if got := (Color{1, 0, 0.5}).Hex(); got != "#ff0080" {
		t.Errorf("Hex = %s", got)
	}
	if got := (Color{2, -1, 0}).Hex(); got != "#ff0000" {
		t.Errorf("clamped Hex = %s", got)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff0080")
	if err != nil {
		t.Fatal(err)
	}
	if c.Hex() != "#ff0080" {
		t.Errorf("round trip = %s", c.Hex())
	}
	for _, bad := range []string{"", "#fff", "#gg0000", "ff00801"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
}

func TestSimulationErrorUnwrap(t *testing.T) {
	err := &SimulationError{Frame: 3, Time: 0.05, Body: 1, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
	want := "frame 3 (t=0.0500) body 1: dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
