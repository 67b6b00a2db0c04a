package drive

import (
	"errors"
	"fmt"

	"github.com/san-kum/axisctl/internal/angle"
)

// Domain errors for drive control.
var (
	// ErrOutOfRange indicates no representative of the target angle fits the
	// drive range. Callers must halt motion rather than guess a fallback.
	ErrOutOfRange = errors.New("drive: target out of drive range")

	// ErrStaleTick indicates a controller update with a non-positive or
	// implausibly large time step. Recoverable on the next scheduler tick.
	ErrStaleTick = errors.New("drive: stale control tick")

	// ErrConfig indicates an invalid construction parameter (non-positive
	// tick, speed or acceleration limit, inverted range).
	ErrConfig = errors.New("drive: invalid configuration")

	// ErrUnknownDriver indicates a driver name not present in the registry.
	ErrUnknownDriver = errors.New("drive: unknown driver")
)

// RangeError wraps ErrOutOfRange with the infeasible request.
type RangeError struct {
	Current angle.Angle
	Target  angle.Angle
	Range   angle.Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("drive: no representative of target %v within drive range %v", e.Target, e.Range)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
