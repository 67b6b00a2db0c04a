package drive

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/axisctl/internal/angle"
)

// Limits holds the per-axis drive envelope. Range is the inviolable hardware
// bound. Warning and Critical are soft envelopes supplied by deployment
// configuration; their relative nesting varies between sites, so only Range
// ordering is enforced here.
type Limits struct {
	Range    angle.Range
	Warning  angle.Range
	Critical angle.Range
	MaxSpeed angle.Speed
	MaxAccel angle.Accel
}

// Validate checks the hard constraints and logs, but tolerates, inconsistent
// soft-limit nesting. Returns ErrConfig on an inverted range or non-positive
// speed or acceleration limit.
func (l Limits) Validate() error {
	if l.Range.Min >= l.Range.Max {
		return fmt.Errorf("%w: range %v not ascending", ErrConfig, l.Range)
	}
	if l.MaxSpeed <= 0 {
		return fmt.Errorf("%w: max speed %v not positive", ErrConfig, l.MaxSpeed)
	}
	if l.MaxAccel <= 0 {
		return fmt.Errorf("%w: max acceleration %v not positive", ErrConfig, l.MaxAccel)
	}

	if l.Warning.Min < l.Range.Min || l.Warning.Max > l.Range.Max {
		slog.Warn("warning limit extends beyond hardware range",
			"warning", l.Warning.String(), "range", l.Range.String())
	}
	if l.Critical.Min < l.Range.Min || l.Critical.Max > l.Range.Max {
		slog.Warn("critical limit extends beyond hardware range",
			"critical", l.Critical.String(), "range", l.Range.String())
	}
	if l.Critical.Min > l.Warning.Min || l.Critical.Max < l.Warning.Max {
		slog.Warn("critical limit nested inside warning limit; check site configuration",
			"warning", l.Warning.String(), "critical", l.Critical.String())
	}
	return nil
}
