package control

import (
	"fmt"
	"time"

	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/drive"
)

// Config fixes the gains and physical limits of one axis controller.
type Config struct {
	Kp float64
	Ki float64
	Kd float64

	// Axis names the controlled axis for diagnostics ("az", "el").
	Axis string
	// Tick is the nominal scheduler period. The first update after a reset
	// integrates over one Tick, since no previous timestamp exists yet.
	Tick time.Duration
	// Stale bounds the accepted interval between updates. Zero selects
	// 5 * Tick.
	Stale time.Duration

	MaxSpeed angle.Speed
	MaxAccel angle.Accel
}

// state is the mutable loop memory, owned exclusively by one PID instance.
type state struct {
	lastErr    angle.Angle
	integral   float64 // deg * s
	derivative angle.Speed
	lastCmd    angle.Speed
	lastTime   time.Time
	seeded     bool
}

// PID converts (target, encoder) angle pairs into bounded speed commands.
// Not safe for concurrent use; run one instance per axis and serialize ticks.
type PID struct {
	cfg Config
	st  state
}

// New validates the configuration and builds a controller with zeroed state.
func New(cfg Config) (*PID, error) {
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("%w: tick %v not positive", drive.ErrConfig, cfg.Tick)
	}
	if cfg.MaxSpeed <= 0 {
		return nil, fmt.Errorf("%w: max speed %v not positive", drive.ErrConfig, cfg.MaxSpeed)
	}
	if cfg.MaxAccel <= 0 {
		return nil, fmt.Errorf("%w: max acceleration %v not positive", drive.ErrConfig, cfg.MaxAccel)
	}
	if cfg.Stale == 0 {
		cfg.Stale = 5 * cfg.Tick
	}
	if cfg.Stale < cfg.Tick {
		return nil, fmt.Errorf("%w: staleness bound %v below tick %v", drive.ErrConfig, cfg.Stale, cfg.Tick)
	}
	return &PID{cfg: cfg}, nil
}

// Update computes the speed command for one tick. The wraparound-optimum
// target must already be resolved; Update never re-resolves mod-360
// equivalence. A non-positive or stale interval fails with ErrStaleTick and
// leaves the controller state untouched. Saturation against the speed or
// acceleration limit is normal operation, not an error.
func (p *PID) Update(current, target angle.Angle, now time.Time) (angle.Speed, error) {
	err := target - current

	elapsed := p.cfg.Tick.Seconds()
	var derivative angle.Speed
	if p.st.seeded {
		elapsed = now.Sub(p.st.lastTime).Seconds()
		if elapsed <= 0 || elapsed > p.cfg.Stale.Seconds() {
			return 0, fmt.Errorf("%w: axis %s interval %gs outside (0, %v]",
				drive.ErrStaleTick, p.cfg.Axis, elapsed, p.cfg.Stale)
		}
		derivative = angle.Speed((err - p.st.lastErr).Deg() / elapsed)
	}

	// Conditional integration: the integral only grows while the unclamped
	// command stays inside the speed limit, so sustained saturation cannot
	// wind it up.
	integral := p.st.integral + err.Deg()*elapsed
	raw := p.raw(err, integral, derivative)
	if raw.Abs() > p.cfg.MaxSpeed {
		integral = p.st.integral
		raw = p.raw(err, integral, derivative)
	}

	cmd := angle.ClampSpeed(raw, p.cfg.MaxSpeed)

	// Rate limiter: the commanded speed never implies acceleration beyond
	// the hardware bound.
	maxDelta := p.cfg.MaxAccel.Over(elapsed)
	if delta := cmd - p.st.lastCmd; delta > maxDelta {
		cmd = p.st.lastCmd + maxDelta
	} else if delta < -maxDelta {
		cmd = p.st.lastCmd - maxDelta
	}

	p.st = state{
		lastErr:    err,
		integral:   integral,
		derivative: derivative,
		lastCmd:    cmd,
		lastTime:   now,
		seeded:     true,
	}
	return cmd, nil
}

func (p *PID) raw(err angle.Angle, integral float64, derivative angle.Speed) angle.Speed {
	return angle.Speed(p.cfg.Kp*err.Deg() + p.cfg.Ki*integral + p.cfg.Kd*derivative.DegPerSec())
}

// Reset zeroes the loop memory. Call it before reusing the controller after
// a discontinuous target jump, so stale error history cannot spike the
// derivative term.
func (p *PID) Reset() {
	p.st = state{}
}

// ErrorIntegral reports the accumulated error integral in degree-seconds.
func (p *PID) ErrorIntegral() float64 { return p.st.integral }

// ErrorDerivative reports the error derivative of the last accepted tick.
func (p *PID) ErrorDerivative() angle.Speed { return p.st.derivative }

// LastCommand reports the most recent speed command.
func (p *PID) LastCommand() angle.Speed { return p.st.lastCmd }

// Axis reports the configured axis name.
func (p *PID) Axis() string { return p.cfg.Axis }
