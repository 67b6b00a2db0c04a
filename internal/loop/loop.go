// Package loop runs the closed control loop of one axis: encoder read,
// optimum-target resolution, PID update, drive command.
package loop

import (
	"context"
	"errors"
	"time"

	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/control"
	"github.com/san-kum/axisctl/internal/drive"
	"github.com/san-kum/axisctl/internal/metrics"
)

// Config drives one Run.
type Config struct {
	// Tick is the scheduler period of the synthetic clock.
	Tick time.Duration
	// Duration bounds the simulated run time.
	Duration time.Duration
	// Start is the synthetic clock origin. The zero value selects
	// time.Unix(0, 0).
	Start time.Time
}

// Observer is notified after every accepted tick.
type Observer interface {
	OnTick(position, target angle.Angle, cmd angle.Speed, t float64)
}

// Result collects the trajectory of one run.
type Result struct {
	Times     []float64 // seconds from run start
	Positions []angle.Angle
	Targets   []angle.Angle
	Commands  []angle.Speed

	// SkippedTicks counts updates rejected as stale and retried next tick.
	SkippedTicks int
	Metrics      map[string]float64
}

// Loop owns the per-axis collaborators. One Loop per axis; ticks are strictly
// sequential and the Loop is not safe for concurrent use. Separate axes run
// separate Loops with nothing shared.
type Loop struct {
	space *drive.Space
	pid   *control.PID
	drv   drive.Driver

	// targetJump is the resolved-target change beyond which PID state is
	// reset before the update, so a retargeted axis does not see a
	// derivative spike from stale history. Zero disables the check.
	targetJump angle.Angle

	metrics   []metrics.Metric
	observers []Observer

	lastTarget   angle.Angle
	lastPosition angle.Angle
	haveTarget   bool
}

func New(space *drive.Space, pid *control.PID, drv drive.Driver) *Loop {
	return &Loop{space: space, pid: pid, drv: drv}
}

// SetTargetJump enables the automatic PID reset on large retargets.
func (l *Loop) SetTargetJump(threshold angle.Angle) { l.targetJump = threshold }

func (l *Loop) AddMetric(m metrics.Metric) { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer)     { l.observers = append(l.observers, o) }

// Step executes one control tick at the given timestamp: read the encoder,
// resolve the optimum representative of target, update the PID and command
// the drive. An out-of-range target is fatal to the cycle and the caller
// must halt motion; a stale tick is recoverable on the next cycle.
func (l *Loop) Step(target angle.Angle, now time.Time) (angle.Speed, error) {
	position := l.drv.Read(now)
	l.lastPosition = position

	resolved, err := l.space.Resolve(position, target)
	if err != nil {
		return 0, err
	}

	if l.haveTarget && l.targetJump > 0 && (resolved-l.lastTarget).Abs() > l.targetJump {
		l.pid.Reset()
	}
	l.lastTarget = resolved
	l.haveTarget = true

	cmd, err := l.pid.Update(position, resolved, now)
	if err != nil {
		return 0, err
	}
	l.drv.Command(cmd)
	return cmd, nil
}

// Position reads the encoder at the given timestamp.
func (l *Loop) Position(now time.Time) angle.Angle { return l.drv.Read(now) }

// Run executes the loop against a synthetic clock until the configured
// duration elapses or the context is canceled. Stale ticks are counted and
// skipped; an unreachable target aborts the run with the resolution error
// and the partial result.
func (l *Loop) Run(ctx context.Context, target angle.Angle, cfg Config) (*Result, error) {
	if cfg.Tick <= 0 || cfg.Duration <= 0 {
		return nil, errors.New("loop: tick and duration must be positive")
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Unix(0, 0)
	}

	steps := int(cfg.Duration / cfg.Tick)
	result := &Result{
		Times:     make([]float64, 0, steps),
		Positions: make([]angle.Angle, 0, steps),
		Targets:   make([]angle.Angle, 0, steps),
		Commands:  make([]angle.Speed, 0, steps),
		Metrics:   make(map[string]float64),
	}

	for _, m := range l.metrics {
		m.Reset()
	}

	now := start
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		now = now.Add(cfg.Tick)
		t := now.Sub(start).Seconds()

		cmd, err := l.Step(target, now)
		if err != nil {
			if errors.Is(err, drive.ErrStaleTick) {
				result.SkippedTicks++
				continue
			}
			return result, err
		}

		position := l.lastPosition
		for _, m := range l.metrics {
			m.Observe(position, l.lastTarget, cmd, t)
		}
		for _, o := range l.observers {
			o.OnTick(position, l.lastTarget, cmd, t)
		}

		result.Times = append(result.Times, t)
		result.Positions = append(result.Positions, position)
		result.Targets = append(result.Targets, l.lastTarget)
		result.Commands = append(result.Commands, cmd)
	}

	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
