package angle

import (
	"math"
	"testing"
)

func TestUnitConversions(t *testing.T) {
	tests := []struct {
		name string
		a    Angle
		deg  float64
	}{
		{"deg", Deg(1), 1},
		{"arcmin", Arcmin(60), 1},
		{"arcsec", Arcsec(3600), 1},
		{"rad", Rad(math.Pi), 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.a.Deg()-tt.deg) > 1e-12 {
				t.Errorf("expected %f deg, got %f", tt.deg, tt.a.Deg())
			}
		})
	}
}

func TestAngleRoundTrip(t *testing.T) {
	a := Deg(12.5)
	if got := Arcsec(a.Arcsec()); math.Abs(got.Deg()-12.5) > 1e-9 {
		t.Errorf("arcsec round trip changed value: %v", got)
	}
	if got := Rad(a.Rad()); math.Abs(got.Deg()-12.5) > 1e-9 {
		t.Errorf("rad round trip changed value: %v", got)
	}
}

func TestMod360(t *testing.T) {
	tests := []struct {
		in   Angle
		want Angle
	}{
		{Deg(0), Deg(0)},
		{Deg(360), Deg(0)},
		{Deg(-160), Deg(200)},
		{Deg(725), Deg(5)},
		{Deg(-540), Deg(180)},
	}

	for _, tt := range tests {
		if got := tt.in.Mod360(); math.Abs(got.Deg()-tt.want.Deg()) > 1e-9 {
			t.Errorf("Mod360(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: Deg(-220), Max: Deg(268)}
	for _, a := range []Angle{Deg(-220), Deg(0), Deg(268)} {
		if !r.Contains(a) {
			t.Errorf("%v should be inside %v", a, r)
		}
	}
	for _, a := range []Angle{Deg(-221), Deg(269)} {
		if r.Contains(a) {
			t.Errorf("%v should be outside %v", a, r)
		}
	}
}

func TestClampSpeed(t *testing.T) {
	max := DegPerSec(2)
	if got := ClampSpeed(DegPerSec(5), max); got != max {
		t.Errorf("expected clamp to %v, got %v", max, got)
	}
	if got := ClampSpeed(DegPerSec(-5), max); got != -max {
		t.Errorf("expected clamp to %v, got %v", -max, got)
	}
	if got := ClampSpeed(DegPerSec(1.5), max); got != DegPerSec(1.5) {
		t.Errorf("in-bounds speed should pass through, got %v", got)
	}
}
