package drive

import (
	"fmt"
	"time"

	"github.com/san-kum/axisctl/internal/angle"
)

// Driver is the capability surface of one axis of a real or emulated drive:
// a motor accepting a speed command and an encoder reporting position.
// Implementations are not safe for concurrent use; the per-axis control loop
// serializes access.
type Driver interface {
	// Command records the requested angular speed.
	Command(s angle.Speed)
	// Read reports the encoder angle at the supplied monotonic timestamp.
	Read(now time.Time) angle.Angle
}

// DriverFunc builds a Driver variant from axis configuration.
type DriverFunc func(cfg DriverConfig) (Driver, error)

// DriverConfig carries the parameters the registered variants understand.
type DriverConfig struct {
	Initial angle.Angle
	Tick    time.Duration
}

// Registry maps driver names to constructors. The set of variants is fixed at
// startup; selection happens once, from validated configuration.
type Registry struct {
	drivers map[string]DriverFunc
}

func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]DriverFunc)}
}

// Register adds a named variant. Later registrations shadow earlier ones.
func (r *Registry) Register(name string, fn DriverFunc) {
	r.drivers[name] = fn
}

// Open builds the named driver variant.
func (r *Registry) Open(name string, cfg DriverConfig) (Driver, error) {
	fn, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return fn(cfg)
}

// Names lists the registered variants.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	return names
}

// Fixed is a Driver stub that ignores commands and always reports the same
// angle. Useful for exercising halt paths in tests.
type Fixed struct {
	Angle angle.Angle
}

func (f *Fixed) Command(angle.Speed)        {}
func (f *Fixed) Read(time.Time) angle.Angle { return f.Angle }
