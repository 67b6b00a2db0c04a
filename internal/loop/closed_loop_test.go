package loop_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/control"
	"github.com/san-kum/axisctl/internal/drive"
	"github.com/san-kum/axisctl/internal/emulator"
	"github.com/san-kum/axisctl/internal/loop"
	"github.com/san-kum/axisctl/internal/metrics"
)

var _ = Describe("Closed loop on the emulator", func() {
	const tick = 100 * time.Millisecond

	var (
		l   *loop.Loop
		pid *control.PID
	)

	BeforeEach(func() {
		space, err := drive.NewSpace(
			angle.Range{Min: angle.Deg(-260), Max: angle.Deg(260)},
			angle.Range{Min: angle.Deg(-250), Max: angle.Deg(250)},
			angle.Deg(5),
		)
		Expect(err).NotTo(HaveOccurred())

		pid, err = control.New(control.Config{
			Kp:       1.5,
			Axis:     "az",
			Tick:     tick,
			MaxSpeed: angle.DegPerSec(2),
			MaxAccel: angle.DegPerSec2(100),
		})
		Expect(err).NotTo(HaveOccurred())

		emu, err := emulator.New(emulator.Config{
			MomentOfInertia: 1,
			MaxTorque:       1,
			Resolution:      angle.Arcsec(1),
			Tick:            tick,
			Initial:         angle.Deg(30),
		})
		Expect(err).NotTo(HaveOccurred())

		l = loop.New(space, pid, emu)
	})

	It("converges onto a reachable target", func() {
		result, err := l.Run(context.Background(), angle.Deg(50), loop.Config{
			Tick:     tick,
			Duration: 60 * time.Second,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Positions).NotTo(BeEmpty())

		final := result.Positions[len(result.Positions)-1]
		Expect(final.Deg()).To(BeNumerically("~", 50, 0.05))
	})

	It("never commands beyond the speed limit", func() {
		result, err := l.Run(context.Background(), angle.Deg(-120), loop.Config{
			Tick:     tick,
			Duration: 30 * time.Second,
		})
		Expect(err).NotTo(HaveOccurred())

		for _, cmd := range result.Commands {
			Expect(cmd.Abs().DegPerSec()).To(BeNumerically("<=", 2+1e-9))
		}
	})

	It("resolves the short-travel representative before driving", func() {
		// Requested -160deg is congruent to 200deg; from 170deg the loop
		// must drive the 30deg leg, not the 330deg one.
		emu, err := emulator.New(emulator.Config{
			MomentOfInertia: 1,
			MaxTorque:       1,
			Resolution:      angle.Arcsec(1),
			Tick:            tick,
			Initial:         angle.Deg(170),
		})
		Expect(err).NotTo(HaveOccurred())

		space, err := drive.NewSpace(
			angle.Range{Min: angle.Deg(-220), Max: angle.Deg(268)},
			angle.Range{Min: angle.Deg(-220), Max: angle.Deg(268)},
			angle.Deg(5),
		)
		Expect(err).NotTo(HaveOccurred())

		l = loop.New(space, pid, emu)

		result, err := l.Run(context.Background(), angle.Deg(-160), loop.Config{
			Tick:     tick,
			Duration: 60 * time.Second,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Targets[0]).To(Equal(angle.Deg(200)))

		final := result.Positions[len(result.Positions)-1]
		Expect(final.Deg()).To(BeNumerically("~", 200, 0.05))
	})

	It("reports loop quality metrics", func() {
		l.AddMetric(metrics.NewOvershoot())
		l.AddMetric(metrics.NewSettlingTime(angle.Deg(0.1)))
		l.AddMetric(metrics.NewControlEffort())

		result, err := l.Run(context.Background(), angle.Deg(50), loop.Config{
			Tick:     tick,
			Duration: 60 * time.Second,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Metrics).To(HaveKey("overshoot"))
		Expect(result.Metrics).To(HaveKey("settling_time"))
		Expect(result.Metrics["settling_time"]).To(BeNumerically(">", 0))
		// 20 degrees of travel costs at least 20 degrees of commanded motion.
		Expect(result.Metrics["control_effort"]).To(BeNumerically(">=", 19))
	})
})
