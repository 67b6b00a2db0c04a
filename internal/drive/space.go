package drive

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/san-kum/axisctl/internal/angle"
)

const fullTurn = angle.Angle(360)

// Space models the periodic angular domain of one axis and resolves which
// representative of a target angle, congruent modulo 360 degrees, should be
// driven to.
type Space struct {
	// Range is the hardware drive range; results never leave it.
	Range angle.Range
	// Preferred is the soft envelope. Results outside it are allowed when no
	// preferred candidate exists or the travel is short, but draw a warning.
	Preferred angle.Range
	// FullTurnThreshold is the travel distance under which the nearest
	// candidate is taken regardless of Preferred, so that a tracking episode
	// in progress is not interrupted by an unwrap.
	FullTurnThreshold angle.Angle
}

// NewSpace builds a Space over the hardware range. preferred may equal the
// hardware range when no soft envelope is configured.
func NewSpace(hard, preferred angle.Range, threshold angle.Angle) (*Space, error) {
	if hard.Min >= hard.Max {
		return nil, fmt.Errorf("%w: drive range %v not ascending", ErrConfig, hard)
	}
	if preferred.Min >= preferred.Max {
		return nil, fmt.Errorf("%w: preferred range %v not ascending", ErrConfig, preferred)
	}
	return &Space{Range: hard, Preferred: preferred, FullTurnThreshold: threshold}, nil
}

// Resolve returns the representative of target that lies within the drive
// range and takes the least travel from current. current is only the distance
// reference; it may itself sit outside the range after an external fault.
// Returns a RangeError (wrapping ErrOutOfRange) when no representative fits.
func (s *Space) Resolve(current, target angle.Angle) (angle.Angle, error) {
	candidates := s.candidates(target)
	if len(candidates) == 0 {
		return 0, &RangeError{Current: current, Target: target, Range: s.Range}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j], current)
	})

	best := candidates[0]
	if dist(best, current) >= s.FullTurnThreshold {
		for _, c := range candidates {
			if s.Preferred.Contains(c) {
				best = c
				break
			}
		}
	}

	if !s.Preferred.Contains(best) {
		slog.Warn("command position near drive range limit",
			"target", best.String(), "preferred", s.Preferred.String())
	}
	return best, nil
}

// candidates enumerates target + k*360 for every integer k that lands inside
// the drive range, in ascending order.
func (s *Space) candidates(target angle.Angle) []angle.Angle {
	k := math.Ceil(float64(s.Range.Min-target) / float64(fullTurn))
	var out []angle.Angle
	for c := target + angle.Angle(k)*fullTurn; c <= s.Range.Max; c += fullTurn {
		out = append(out, c)
	}
	return out
}

func dist(a, b angle.Angle) angle.Angle {
	return (a - b).Abs()
}

// less orders candidates by travel distance from current. Equidistant
// candidates prefer the smaller absolute angle; an exact absolute tie prefers
// the non-negative one. The ordering is total, so resolution is reproducible.
func less(a, b, current angle.Angle) bool {
	da, db := dist(a, current), dist(b, current)
	if da != db {
		return da < db
	}
	if a.Abs() != b.Abs() {
		return a.Abs() < b.Abs()
	}
	return a > b
}
