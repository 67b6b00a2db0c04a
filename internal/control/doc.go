// Package control provides the per-axis feedback controller.
//
// [PID] turns a resolved target angle and an encoder reading into a speed
// command bounded by the axis speed and acceleration limits:
//
//	pid, _ := control.New(control.Config{
//	    Kp: 1.5, Ki: 0.5, Kd: 0.3,
//	    Axis: "az", Tick: 100 * time.Millisecond,
//	    MaxSpeed: angle.DegPerSec(2), MaxAccel: angle.DegPerSec2(2),
//	})
//	cmd, err := pid.Update(encoder, target, now)
//
// Integral accumulation is conditional (anti-windup): it halts while the
// unclamped output saturates. The commanded speed is additionally
// rate-limited so consecutive ticks never imply acceleration beyond the
// hardware bound.
package control
