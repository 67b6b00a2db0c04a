package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/control"
	"github.com/san-kum/axisctl/internal/drive"
	"github.com/san-kum/axisctl/internal/emulator"
)

// Defaults follow the reference telescope deployment.
const (
	DefaultKp        = 1.0
	DefaultKi        = 0.5
	DefaultKd        = 0.3
	DefaultTick      = "100ms"
	DefaultFrequency = 10.0
	DefaultDriver    = "emulator"
)

// Bound is a min/max pair of angle quantity strings.
type Bound struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

// Axis holds the tunables of one controlled axis. Quantities carry explicit
// units ("2 deg/s", "1000 arcsec"); bare numbers are rejected at parse time.
type Axis struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`

	Tick string `yaml:"tick"`
	// CommandFrequency is the expected scheduler rate in Hz, used to
	// cross-check Tick.
	CommandFrequency float64 `yaml:"command_frequency"`

	MaxSpeed        string `yaml:"max_speed"`
	MaxAcceleration string `yaml:"max_acceleration"`

	Range    Bound `yaml:"range"`
	Warning  Bound `yaml:"warning_limit"`
	Critical Bound `yaml:"critical_limit"`

	FullTurnThreshold string `yaml:"full_turn_threshold"`
	Initial           string `yaml:"initial"`
}

// Emulator holds the simulated drive-train parameters.
type Emulator struct {
	MomentOfInertia float64 `yaml:"moment_of_inertia"` // kg m^2
	MaxTorque       float64 `yaml:"max_torque"`        // N m
	Resolution      string  `yaml:"resolution"`
	NoiseSigma      string  `yaml:"noise_sigma"`
	Seed            int64   `yaml:"seed"`
}

type Config struct {
	Driver   string          `yaml:"driver"`
	Axes     map[string]Axis `yaml:"axes"`
	Emulator Emulator        `yaml:"emulator"`
}

// defaultAxis is the baseline block axes start from before file overrides.
func defaultAxis() Axis {
	return Axis{
		Kp:                DefaultKp,
		Ki:                DefaultKi,
		Kd:                DefaultKd,
		Tick:              DefaultTick,
		CommandFrequency:  DefaultFrequency,
		MaxSpeed:          "2 deg/s",
		MaxAcceleration:   "2 deg/s2",
		Range:             Bound{Min: "-260 deg", Max: "260 deg"},
		Warning:           Bound{Min: "-240 deg", Max: "240 deg"},
		Critical:          Bound{Min: "-250 deg", Max: "250 deg"},
		FullTurnThreshold: "5 deg",
		Initial:           "180 deg",
	}
}

// DefaultConfig returns an az/el configuration for the emulated drive.
func DefaultConfig() *Config {
	az := defaultAxis()

	el := az
	el.Range = Bound{Min: "0 deg", Max: "90 deg"}
	el.Warning = Bound{Min: "10 deg", Max: "80 deg"}
	el.Critical = Bound{Min: "5 deg", Max: "85 deg"}
	el.Initial = "45 deg"

	return &Config{
		Driver: DefaultDriver,
		Axes:   map[string]Axis{"az": az, "el": el},
		Emulator: Emulator{
			MomentOfInertia: 3000,
			MaxTorque:       11.5,
			Resolution:      "0.137 arcsec",
		},
	}
}

// Load reads a configuration file over the defaults. Axis blocks merge
// field by field, so a file may override a single gain without restating the
// whole axis; unknown axis names start from the default block.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	var file struct {
		Driver   string               `yaml:"driver"`
		Axes     map[string]yaml.Node `yaml:"axes"`
		Emulator yaml.Node            `yaml:"emulator"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	if file.Driver != "" {
		cfg.Driver = file.Driver
	}
	if !file.Emulator.IsZero() {
		if err := file.Emulator.Decode(&cfg.Emulator); err != nil {
			return nil, err
		}
	}
	for name, node := range file.Axes {
		axis, ok := cfg.Axes[name]
		if !ok {
			axis = defaultAxis()
		}
		if err := node.Decode(&axis); err != nil {
			return nil, err
		}
		cfg.Axes[name] = axis
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Axis returns the named axis block.
func (c *Config) Axis(name string) (Axis, error) {
	a, ok := c.Axes[name]
	if !ok {
		return Axis{}, fmt.Errorf("%w: axis %q not configured", drive.ErrConfig, name)
	}
	return a, nil
}

// TickPeriod parses the Tick duration and cross-checks it against the
// configured command frequency; a mismatch beyond 10% logs a warning but is
// not fatal, since the frequency is advisory.
func (a Axis) TickPeriod() (time.Duration, error) {
	tick, err := time.ParseDuration(a.Tick)
	if err != nil {
		return 0, fmt.Errorf("%w: tick: %v", drive.ErrConfig, err)
	}
	if tick <= 0 {
		return 0, fmt.Errorf("%w: tick %v not positive", drive.ErrConfig, tick)
	}
	if a.CommandFrequency > 0 {
		expected := time.Duration(float64(time.Second) / a.CommandFrequency)
		if ratio := tick.Seconds() / expected.Seconds(); math.Abs(ratio-1) > 0.1 {
			slog.Warn("tick period inconsistent with command frequency",
				"tick", tick.String(), "command_frequency_hz", a.CommandFrequency)
		}
	}
	return tick, nil
}

// ControlConfig assembles the PID construction parameters.
func (a Axis) ControlConfig(name string) (control.Config, error) {
	tick, err := a.TickPeriod()
	if err != nil {
		return control.Config{}, err
	}
	maxSpeed, err := angle.ParseSpeed(a.MaxSpeed)
	if err != nil {
		return control.Config{}, fmt.Errorf("%w: max_speed: %v", drive.ErrConfig, err)
	}
	maxAccel, err := angle.ParseAccel(a.MaxAcceleration)
	if err != nil {
		return control.Config{}, fmt.Errorf("%w: max_acceleration: %v", drive.ErrConfig, err)
	}
	return control.Config{
		Kp:       a.Kp,
		Ki:       a.Ki,
		Kd:       a.Kd,
		Axis:     name,
		Tick:     tick,
		MaxSpeed: maxSpeed,
		MaxAccel: maxAccel,
	}, nil
}

// Limits assembles and validates the drive envelope.
func (a Axis) Limits() (drive.Limits, error) {
	hard, err := parseBound(a.Range)
	if err != nil {
		return drive.Limits{}, fmt.Errorf("%w: range: %v", drive.ErrConfig, err)
	}
	warning, err := parseBound(a.Warning)
	if err != nil {
		return drive.Limits{}, fmt.Errorf("%w: warning_limit: %v", drive.ErrConfig, err)
	}
	critical, err := parseBound(a.Critical)
	if err != nil {
		return drive.Limits{}, fmt.Errorf("%w: critical_limit: %v", drive.ErrConfig, err)
	}
	maxSpeed, err := angle.ParseSpeed(a.MaxSpeed)
	if err != nil {
		return drive.Limits{}, fmt.Errorf("%w: max_speed: %v", drive.ErrConfig, err)
	}
	maxAccel, err := angle.ParseAccel(a.MaxAcceleration)
	if err != nil {
		return drive.Limits{}, fmt.Errorf("%w: max_acceleration: %v", drive.ErrConfig, err)
	}

	limits := drive.Limits{
		Range:    hard,
		Warning:  warning,
		Critical: critical,
		MaxSpeed: maxSpeed,
		MaxAccel: maxAccel,
	}
	if err := limits.Validate(); err != nil {
		return drive.Limits{}, err
	}
	return limits, nil
}

// Space assembles the angle-space resolver, preferring the warning envelope.
func (a Axis) Space() (*drive.Space, error) {
	limits, err := a.Limits()
	if err != nil {
		return nil, err
	}
	threshold, err := angle.Parse(a.FullTurnThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: full_turn_threshold: %v", drive.ErrConfig, err)
	}
	return drive.NewSpace(limits.Range, limits.Warning, threshold)
}

// InitialAngle parses the configured start position.
func (a Axis) InitialAngle() (angle.Angle, error) {
	initial, err := angle.Parse(a.Initial)
	if err != nil {
		return 0, fmt.Errorf("%w: initial: %v", drive.ErrConfig, err)
	}
	return initial, nil
}

// EmulatorConfig assembles the emulator construction parameters for one axis.
func (c *Config) EmulatorConfig(name string) (emulator.Config, error) {
	a, err := c.Axis(name)
	if err != nil {
		return emulator.Config{}, err
	}
	tick, err := a.TickPeriod()
	if err != nil {
		return emulator.Config{}, err
	}
	initial, err := a.InitialAngle()
	if err != nil {
		return emulator.Config{}, err
	}
	resolution, err := angle.Parse(c.Emulator.Resolution)
	if err != nil {
		return emulator.Config{}, fmt.Errorf("%w: resolution: %v", drive.ErrConfig, err)
	}

	var noise angle.Angle
	if c.Emulator.NoiseSigma != "" {
		noise, err = angle.Parse(c.Emulator.NoiseSigma)
		if err != nil {
			return emulator.Config{}, fmt.Errorf("%w: noise_sigma: %v", drive.ErrConfig, err)
		}
	}

	return emulator.Config{
		MomentOfInertia: c.Emulator.MomentOfInertia,
		MaxTorque:       c.Emulator.MaxTorque,
		Resolution:      resolution,
		Tick:            tick,
		Initial:         initial,
		NoiseSigma:      noise,
		Seed:            c.Emulator.Seed,
	}, nil
}

func parseBound(b Bound) (angle.Range, error) {
	min, err := angle.Parse(b.Min)
	if err != nil {
		return angle.Range{}, err
	}
	max, err := angle.Parse(b.Max)
	if err != nil {
		return angle.Range{}, err
	}
	return angle.Range{Min: min, Max: max}, nil
}
