package angle

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a quantity string like "2 deg", "1000arcsec" or "-1.5 rad".
// A bare number is rejected: configuration must always name the unit.
func Parse(s string) (Angle, error) {
	value, unit, err := split(s)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "deg", "degree":
		return Deg(value), nil
	case "arcmin":
		return Arcmin(value), nil
	case "arcsec":
		return Arcsec(value), nil
	case "rad", "radian":
		return Rad(value), nil
	}
	return 0, fmt.Errorf("unknown angle unit %q in %q", unit, s)
}

// ParseSpeed reads rate strings like "2 deg/s" or "1000 arcsec/s".
func ParseSpeed(s string) (Speed, error) {
	base, ok := strings.CutSuffix(strings.TrimSpace(s), "/s")
	if !ok {
		return 0, fmt.Errorf("speed %q must carry a /s suffix", s)
	}
	a, err := Parse(base)
	if err != nil {
		return 0, err
	}
	return Speed(a), nil
}

// ParseAccel reads acceleration strings like "1.6 deg/s2" or "2 deg/s^2".
func ParseAccel(s string) (Accel, error) {
	base := strings.TrimSpace(s)
	var ok bool
	for _, suffix := range []string{"/s2", "/s^2", "/s/s"} {
		if cut, found := strings.CutSuffix(base, suffix); found {
			base, ok = cut, true
			break
		}
	}
	if !ok {
		return 0, fmt.Errorf("acceleration %q must carry a /s2 suffix", s)
	}
	a, err := Parse(base)
	if err != nil {
		return 0, err
	}
	return Accel(a), nil
}

func split(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexAny(s, "0123456789.")
	if i < 0 || i == len(s)-1 {
		return 0, "", fmt.Errorf("quantity %q must be a number followed by a unit", s)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s[:i+1]), 64)
	if err != nil {
		return 0, "", fmt.Errorf("quantity %q: %w", s, err)
	}
	return value, strings.TrimSpace(s[i+1:]), nil
}
