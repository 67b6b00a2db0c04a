package metrics

import (
	"math"

	"github.com/san-kum/axisctl/internal/angle"
)

// Metric accumulates one scalar quality measure over a control-loop run.
type Metric interface {
	Name() string
	Observe(position, target angle.Angle, cmd angle.Speed, t float64)
	Value() float64
	Reset()
}

// Overshoot records the largest excursion past the target, in degrees, after
// the axis first crosses it.
type Overshoot struct {
	name    string
	crossed bool
	sign    float64
	max     float64
	started bool
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(position, target angle.Angle, cmd angle.Speed, t float64) {
	err := (target - position).Deg()
	if !o.started {
		o.started = true
		o.sign = math.Copysign(1, err)
		return
	}
	if !o.crossed && math.Copysign(1, err) != o.sign {
		o.crossed = true
	}
	if o.crossed {
		if over := -err * o.sign; over > o.max {
			o.max = over
		}
	}
}

func (o *Overshoot) Value() float64 { return o.max }

func (o *Overshoot) Reset() { *o = Overshoot{name: o.name} }

// SettlingTime records the first time after which the error stays within the
// band, in seconds. Leaving the band restarts the measurement.
type SettlingTime struct {
	name    string
	band    angle.Angle
	settled float64
	inBand  bool
}

func NewSettlingTime(band angle.Angle) *SettlingTime {
	return &SettlingTime{name: "settling_time", band: band, settled: math.NaN()}
}

func (s *SettlingTime) Name() string { return s.name }

func (s *SettlingTime) Observe(position, target angle.Angle, cmd angle.Speed, t float64) {
	if (target - position).Abs() <= s.band {
		if !s.inBand {
			s.inBand = true
			s.settled = t
		}
		return
	}
	s.inBand = false
	s.settled = math.NaN()
}

// Value reports the settling time, or NaN when the run never settled.
func (s *SettlingTime) Value() float64 { return s.settled }

func (s *SettlingTime) Reset() {
	*s = SettlingTime{name: s.name, band: s.band, settled: math.NaN()}
}

// ControlEffort integrates |command| over time, in degrees of total travel
// requested.
type ControlEffort struct {
	name  string
	sum   float64
	last  float64
	begun bool
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(position, target angle.Angle, cmd angle.Speed, t float64) {
	if c.begun {
		c.sum += cmd.Abs().DegPerSec() * (t - c.last)
	}
	c.begun = true
	c.last = t
}

func (c *ControlEffort) Value() float64 { return c.sum }

func (c *ControlEffort) Reset() { *c = ControlEffort{name: c.name} }
