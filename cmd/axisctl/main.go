package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/config"
	"github.com/san-kum/axisctl/internal/control"
	"github.com/san-kum/axisctl/internal/drive"
	"github.com/san-kum/axisctl/internal/emulator"
	"github.com/san-kum/axisctl/internal/loop"
	"github.com/san-kum/axisctl/internal/metrics"
	"github.com/san-kum/axisctl/internal/storage"
	"github.com/san-kum/axisctl/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	driverName string
	targetSpec string
	duration   time.Duration
	settleBand string
	resetJump  string
	save       bool
	current    string
	plotWidth  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "axisctl",
		Short: "closed-loop drive control for a two-axis telescope mount",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".axisctl", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	simulateCmd := &cobra.Command{
		Use:   "simulate [axis]",
		Short: "run the closed loop against the emulated drive",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVar(&targetSpec, "target", "90 deg", "pointing target")
	simulateCmd.Flags().DurationVar(&duration, "time", 60*time.Second, "simulated duration")
	simulateCmd.Flags().StringVar(&driverName, "driver", "", "driver variant (default from config)")
	simulateCmd.Flags().StringVar(&settleBand, "settle-band", "0.05 deg", "settling tolerance")
	simulateCmd.Flags().StringVar(&resetJump, "reset-jump", "50 deg", "retarget jump that resets controller state (0 disables)")
	simulateCmd.Flags().BoolVar(&save, "save", false, "persist the run")
	simulateCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	resolveCmd := &cobra.Command{
		Use:   "resolve [axis] [target]",
		Short: "resolve the optimum in-range representative of a target",
		Args:  cobra.ExactArgs(2),
		RunE:  runResolve,
	}
	resolveCmd.Flags().StringVar(&current, "current", "0 deg", "current encoder position")

	liveCmd := &cobra.Command{
		Use:   "live [axis]",
		Short: "run the closed loop with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&targetSpec, "target", "90 deg", "pointing target")
	liveCmd.Flags().StringVar(&driverName, "driver", "", "driver variant (default from config)")
	liveCmd.Flags().StringVar(&resetJump, "reset-jump", "50 deg", "retarget jump that resets controller state (0 disables)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(simulateCmd, resolveCmd, liveCmd, listCmd, plotCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

// buildLoop assembles one axis: resolver, controller, and the selected
// driver variant.
func buildLoop(cfg *config.Config, axisName, driver string) (*loop.Loop, time.Duration, error) {
	axis, err := cfg.Axis(axisName)
	if err != nil {
		return nil, 0, err
	}
	tick, err := axis.TickPeriod()
	if err != nil {
		return nil, 0, err
	}
	space, err := axis.Space()
	if err != nil {
		return nil, 0, err
	}
	ctlCfg, err := axis.ControlConfig(axisName)
	if err != nil {
		return nil, 0, err
	}
	pid, err := control.New(ctlCfg)
	if err != nil {
		return nil, 0, err
	}
	initial, err := axis.InitialAngle()
	if err != nil {
		return nil, 0, err
	}

	registry := drive.NewRegistry()
	registry.Register("emulator", func(dc drive.DriverConfig) (drive.Driver, error) {
		ecfg, err := cfg.EmulatorConfig(axisName)
		if err != nil {
			return nil, err
		}
		ecfg.Initial = dc.Initial
		ecfg.Tick = dc.Tick
		return emulator.New(ecfg)
	})
	registry.Register("fixed", func(dc drive.DriverConfig) (drive.Driver, error) {
		return &drive.Fixed{Angle: dc.Initial}, nil
	})

	if driver == "" {
		driver = cfg.Driver
	}
	drv, err := registry.Open(driver, drive.DriverConfig{Initial: initial, Tick: tick})
	if err != nil {
		return nil, 0, err
	}

	l := loop.New(space, pid, drv)
	if resetJump != "" {
		jump, err := angle.Parse(resetJump)
		if err != nil {
			return nil, 0, fmt.Errorf("reset-jump: %w", err)
		}
		l.SetTargetJump(jump)
	}
	return l, tick, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	axisName := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	target, err := angle.Parse(targetSpec)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	band, err := angle.Parse(settleBand)
	if err != nil {
		return fmt.Errorf("settle-band: %w", err)
	}

	l, tick, err := buildLoop(cfg, axisName, driverName)
	if err != nil {
		return err
	}
	l.AddMetric(metrics.NewOvershoot())
	l.AddMetric(metrics.NewSettlingTime(band))
	l.AddMetric(metrics.NewControlEffort())

	fmt.Printf("driving %s to %s...\n", axisName, target)
	start := time.Now()

	result, err := l.Run(context.Background(), target, loop.Config{Tick: tick, Duration: duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d", len(result.Times))
	if result.SkippedTicks > 0 {
		fmt.Printf(" (%d skipped)", result.SkippedTicks)
	}
	fmt.Println()
	fmt.Println()
	fmt.Println(viz.PlotResult(result, plotWidth))

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		name := driverName
		if name == "" {
			name = cfg.Driver
		}
		runID, err := st.Save(axisName, name, target, tick, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	axisName := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	axis, err := cfg.Axis(axisName)
	if err != nil {
		return err
	}
	space, err := axis.Space()
	if err != nil {
		return err
	}

	cur, err := angle.Parse(current)
	if err != nil {
		return fmt.Errorf("current: %w", err)
	}
	target, err := angle.Parse(args[1])
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	resolved, err := space.Resolve(cur, target)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s from %s resolves to %s (travel %s)\n",
		axisName, target, cur, resolved, (resolved - cur).Abs())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	axisName := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	target, err := angle.Parse(targetSpec)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	axis, err := cfg.Axis(axisName)
	if err != nil {
		return err
	}
	tick, err := axis.TickPeriod()
	if err != nil {
		return err
	}

	build := func() (*loop.Loop, error) {
		l, _, err := buildLoop(cfg, axisName, driverName)
		return l, err
	}
	m, err := viz.NewModel(axisName, target, tick, build)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAXIS\tTIME\tTARGET\tTICK\tDRIVER\tSKIPPED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f°\t%.3fs\t%s\t%d\n",
			run.ID,
			run.Axis,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TargetDeg,
			run.TickSec,
			run.Driver,
			run.Skipped,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Meta(runID)
	if err != nil {
		return err
	}
	result, err := st.Trajectory(runID)
	if err != nil {
		return err
	}
	result.Metrics = meta.Metrics

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("axis: %s  target: %.2f°  driver: %s\n", meta.Axis, meta.TargetDeg, meta.Driver)
	fmt.Printf("samples: %d\n\n", len(result.Times))
	fmt.Println(viz.PlotResult(result, plotWidth))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	result, err := st.Trajectory(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time_sec", "position_deg", "target_deg", "command_deg_per_sec"}); err != nil {
		return err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Positions[i].Deg(), 'f', 6, 64),
			strconv.FormatFloat(result.Targets[i].Deg(), 'f', 6, 64),
			strconv.FormatFloat(result.Commands[i].DegPerSec(), 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
