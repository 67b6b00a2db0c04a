// Package emulator stands in for a motor+encoder pair during hardware-free
// testing. It integrates commanded speeds under the torque-derived
// acceleration bound and reports angles quantized to the encoder resolution.
package emulator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/drive"
)

// Config describes the emulated drive train.
type Config struct {
	// MomentOfInertia of the driven structure in kg m^2.
	MomentOfInertia float64
	// MaxTorque the motor can exert in N m. Together with the inertia it
	// bounds the achievable angular acceleration.
	MaxTorque float64
	// Resolution is the smallest angle increment the encoder can report.
	Resolution angle.Angle
	// Tick is the nominal integration step, used when the first read has no
	// prior timestamp to difference against.
	Tick time.Duration
	// Initial is the encoder angle at construction.
	Initial angle.Angle
	// NoiseSigma adds seeded gaussian read noise of this magnitude. Zero
	// disables noise and makes reads exactly reproducible.
	NoiseSigma angle.Angle
	// Seed fixes the noise stream.
	Seed int64
}

// state is the simulated drive state, owned by one Emulator.
type state struct {
	position angle.Angle
	velocity angle.Speed
	lastRead angle.Angle
	lastTime time.Time
	seeded   bool
}

// Emulator simulates one axis. It has no knowledge of drive limits; range
// enforcement stays with the caller, as it does for real hardware.
// Not safe for concurrent use.
type Emulator struct {
	accelBound angle.Accel
	resolution angle.Angle
	tick       time.Duration
	noise      angle.Angle
	rng        *rand.Rand

	cmd angle.Speed
	st  state
}

// New validates the drive-train parameters and builds an emulator at the
// configured initial angle with zero velocity.
func New(cfg Config) (*Emulator, error) {
	if cfg.MomentOfInertia <= 0 {
		return nil, fmt.Errorf("%w: moment of inertia %g not positive", drive.ErrConfig, cfg.MomentOfInertia)
	}
	if cfg.MaxTorque <= 0 {
		return nil, fmt.Errorf("%w: torque %g not positive", drive.ErrConfig, cfg.MaxTorque)
	}
	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("%w: encoder resolution %v not positive", drive.ErrConfig, cfg.Resolution)
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("%w: tick %v not positive", drive.ErrConfig, cfg.Tick)
	}

	return &Emulator{
		accelBound: angle.Accel(angle.Rad(cfg.MaxTorque / cfg.MomentOfInertia).Deg()),
		resolution: cfg.Resolution,
		tick:       cfg.Tick,
		noise:      cfg.NoiseSigma,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		st:         state{position: cfg.Initial},
	}, nil
}

// Command records the requested speed. The simulated axis only moves at the
// next Read.
func (e *Emulator) Command(s angle.Speed) {
	e.cmd = s
}

// Read advances the simulation to now and reports the encoder angle.
//
// The acceleration actually applied is the requested speed change over the
// elapsed interval, clamped to the torque-derived bound, so the simulated
// axis ramps toward the command instead of jumping. Reads without an
// intervening Command keep extrapolating the last commanded speed. A read
// that does not advance past the previous timestamp repeats the last
// reading without moving the axis. The reported angle snaps to the nearest
// multiple of the encoder resolution; exact half-step ties round away from
// zero.
func (e *Emulator) Read(now time.Time) angle.Angle {
	h := e.tick.Seconds()
	if e.st.seeded {
		dt := now.Sub(e.st.lastTime).Seconds()
		if dt <= 0 {
			return e.st.lastRead
		}
		h = dt
	}

	requested := angle.Accel((e.cmd - e.st.velocity).DegPerSec() / h)
	applied := clampAccel(requested, e.accelBound)

	v0 := e.st.velocity
	e.st.velocity = v0 + applied.Over(h)
	e.st.position += angle.Angle(v0.DegPerSec()*h + 0.5*applied.DegPerSec2()*h*h)
	e.st.lastTime = now
	e.st.seeded = true

	read := e.st.position
	if e.noise > 0 {
		read += angle.Angle(e.rng.NormFloat64()) * e.noise
	}
	e.st.lastRead = e.quantize(read)
	return e.st.lastRead
}

// Position reports the exact simulated angle, bypassing encoder quantization.
func (e *Emulator) Position() angle.Angle { return e.st.position }

// Velocity reports the exact simulated angular speed.
func (e *Emulator) Velocity() angle.Speed { return e.st.velocity }

func (e *Emulator) quantize(a angle.Angle) angle.Angle {
	step := e.resolution.Deg()
	return angle.Deg(math.Round(a.Deg()/step) * step)
}

func clampAccel(a, bound angle.Accel) angle.Accel {
	if a > bound {
		return bound
	}
	if a < -bound {
		return -bound
	}
	return a
}
