package angle

import (
	"fmt"
	"math"
)

// Angle is an angular position stored canonically in degrees.
// Construct values with Deg, Arcmin, Arcsec or Rad so the unit is always
// explicit at the API boundary.
type Angle float64

func Deg(v float64) Angle    { return Angle(v) }
func Arcmin(v float64) Angle { return Angle(v / 60) }
func Arcsec(v float64) Angle { return Angle(v / 3600) }
func Rad(v float64) Angle    { return Angle(v * 180 / math.Pi) }

func (a Angle) Deg() float64    { return float64(a) }
func (a Angle) Arcmin() float64 { return float64(a) * 60 }
func (a Angle) Arcsec() float64 { return float64(a) * 3600 }
func (a Angle) Rad() float64    { return float64(a) * math.Pi / 180 }

func (a Angle) Abs() Angle { return Angle(math.Abs(float64(a))) }

// Mod360 maps the angle onto [0, 360).
func (a Angle) Mod360() Angle {
	m := math.Mod(float64(a), 360)
	if m < 0 {
		m += 360
	}
	return Angle(m)
}

func (a Angle) String() string { return fmt.Sprintf("%gdeg", float64(a)) }

// Speed is an angular rate in degrees per second.
type Speed float64

func DegPerSec(v float64) Speed { return Speed(v) }

func (s Speed) DegPerSec() float64    { return float64(s) }
func (s Speed) ArcsecPerSec() float64 { return float64(s) * 3600 }
func (s Speed) RadPerSec() float64    { return float64(s) * math.Pi / 180 }

func (s Speed) Abs() Speed { return Speed(math.Abs(float64(s))) }

func (s Speed) String() string { return fmt.Sprintf("%gdeg/s", float64(s)) }

// Accel is an angular acceleration in degrees per second squared.
type Accel float64

func DegPerSec2(v float64) Accel { return Accel(v) }

func (a Accel) DegPerSec2() float64 { return float64(a) }
func (a Accel) RadPerSec2() float64 { return float64(a) * math.Pi / 180 }

func (a Accel) String() string { return fmt.Sprintf("%gdeg/s2", float64(a)) }

// Over returns the speed change accumulated over dt seconds.
func (a Accel) Over(dt float64) Speed { return Speed(float64(a) * dt) }

// Range is a closed angular interval. Min must not exceed Max; ranges are
// never silently reordered, since [270, 90] and [90, 270] denote opposite
// arcs.
type Range struct {
	Min Angle
	Max Angle
}

func (r Range) Contains(a Angle) bool { return r.Min <= a && a <= r.Max }

// Width returns the angular extent of the range.
func (r Range) Width() Angle { return r.Max - r.Min }

func (r Range) String() string { return fmt.Sprintf("[%v, %v]", r.Min, r.Max) }

// ClampSpeed limits s to [-max, max].
func ClampSpeed(s, max Speed) Speed {
	if s > max {
		return max
	}
	if s < -max {
		return -max
	}
	return s
}
