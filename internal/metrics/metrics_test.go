package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/axisctl/internal/angle"
)

func TestOvershoot(t *testing.T) {
	m := NewOvershoot()
	target := angle.Deg(10)

	// Approach from below, cross, peak at 11.5, come back.
	for i, pos := range []float64{0, 5, 9, 10.5, 11.5, 10.2, 10} {
		m.Observe(angle.Deg(pos), target, 0, float64(i))
	}

	if math.Abs(m.Value()-1.5) > 1e-9 {
		t.Errorf("expected overshoot 1.5, got %f", m.Value())
	}
}

func TestOvershootNoCrossing(t *testing.T) {
	m := NewOvershoot()
	for i, pos := range []float64{0, 3, 6, 8, 9} {
		m.Observe(angle.Deg(pos), angle.Deg(10), 0, float64(i))
	}
	if m.Value() != 0 {
		t.Errorf("expected zero overshoot without crossing, got %f", m.Value())
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(angle.Deg(0.5))
	target := angle.Deg(10)

	positions := []float64{0, 4, 8, 9.8, 10.1, 9.9, 10.0}
	for i, pos := range positions {
		m.Observe(angle.Deg(pos), target, 0, float64(i))
	}

	if math.Abs(m.Value()-3) > 1e-9 {
		t.Errorf("expected settling at t=3, got %f", m.Value())
	}
}

func TestSettlingTimeRestartsOnExit(t *testing.T) {
	m := NewSettlingTime(angle.Deg(0.5))
	target := angle.Deg(10)

	for i, pos := range []float64{10, 10, 5, 10} {
		m.Observe(angle.Deg(pos), target, 0, float64(i))
	}

	if math.Abs(m.Value()-3) > 1e-9 {
		t.Errorf("expected settling restart at t=3, got %f", m.Value())
	}
}

func TestSettlingTimeNeverSettled(t *testing.T) {
	m := NewSettlingTime(angle.Deg(0.5))
	m.Observe(angle.Deg(0), angle.Deg(10), 0, 0)
	if !math.IsNaN(m.Value()) {
		t.Errorf("expected NaN for unsettled run, got %f", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	// 2 deg/s held for 3 seconds of samples.
	for i := 0; i <= 3; i++ {
		m.Observe(0, 0, angle.DegPerSec(2), float64(i))
	}

	if math.Abs(m.Value()-6) > 1e-9 {
		t.Errorf("expected effort 6, got %f", m.Value())
	}
}

func TestReset(t *testing.T) {
	ms := []Metric{NewOvershoot(), NewSettlingTime(angle.Deg(1)), NewControlEffort()}
	for _, m := range ms {
		m.Observe(angle.Deg(0), angle.Deg(5), angle.DegPerSec(1), 0)
		m.Observe(angle.Deg(6), angle.Deg(5), angle.DegPerSec(1), 1)
		m.Reset()
		if v := m.Value(); v != 0 && !math.IsNaN(v) {
			t.Errorf("%s: expected zeroed value after reset, got %f", m.Name(), v)
		}
	}
}
