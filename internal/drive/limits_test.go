package drive

import (
	"errors"
	"testing"

	"github.com/san-kum/axisctl/internal/angle"
)

func TestLimitsValidate(t *testing.T) {
	valid := Limits{
		Range:    symmetric(-260, 260),
		Warning:  symmetric(-240, 240),
		Critical: symmetric(-250, 250),
		MaxSpeed: angle.DegPerSec(2),
		MaxAccel: angle.DegPerSec2(2),
	}

	tests := []struct {
		name   string
		mutate func(*Limits)
		valid  bool
	}{
		{"valid", func(*Limits) {}, true},
		{"inverted range", func(l *Limits) { l.Range = symmetric(260, -260) }, false},
		{"zero speed", func(l *Limits) { l.MaxSpeed = 0 }, false},
		{"negative accel", func(l *Limits) { l.MaxAccel = -1 }, false},
		// Soft-limit nesting is site policy, never fatal.
		{"critical inside warning", func(l *Limits) { l.Critical = symmetric(-230, 230) }, true},
		{"warning beyond range", func(l *Limits) { l.Warning = symmetric(-270, 270) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid
			tt.mutate(&l)
			err := l.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrConfig) {
					t.Errorf("expected ErrConfig, got %v", err)
				}
			}
		})
	}
}
