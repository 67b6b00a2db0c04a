package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/loop"
)

// Store persists control-loop runs under a base directory, one subdirectory
// per run with metadata.json and trajectory.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Axis      string             `json:"axis"`
	Driver    string             `json:"driver"`
	Timestamp time.Time          `json:"timestamp"`
	TargetDeg float64            `json:"target_deg"`
	TickSec   float64            `json:"tick_sec"`
	Skipped   int                `json:"skipped_ticks"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run and returns its ID.
func (s *Store) Save(axis, driver string, target angle.Angle, tick time.Duration, result *loop.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", axis, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Axis:      axis,
		Driver:    driver,
		Timestamp: time.Now(),
		TargetDeg: target.Deg(),
		TickSec:   tick.Seconds(),
		Skipped:   result.SkippedTicks,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time_sec", "position_deg", "target_deg", "command_deg_per_sec"}); err != nil {
		return "", err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'g', -1, 64),
			strconv.FormatFloat(result.Positions[i].Deg(), 'g', -1, 64),
			strconv.FormatFloat(result.Targets[i].Deg(), 'g', -1, 64),
			strconv.FormatFloat(result.Commands[i].DegPerSec(), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// List returns the metadata of all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Meta(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// Meta loads the metadata of one run.
func (s *Store) Meta(runID string) (RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return RunMetadata{}, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return RunMetadata{}, err
	}
	return meta, nil
}

// Trajectory loads the stored trajectory of one run.
func (s *Store) Trajectory(runID string) (*loop.Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("storage: run %s has an empty trajectory", runID)
	}

	result := &loop.Result{}
	for _, row := range rows[1:] {
		if len(row) != 4 {
			return nil, fmt.Errorf("storage: run %s has a malformed trajectory row", runID)
		}
		vals := make([]float64, 4)
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s: %w", runID, err)
			}
			vals[i] = v
		}
		result.Times = append(result.Times, vals[0])
		result.Positions = append(result.Positions, angle.Deg(vals[1]))
		result.Targets = append(result.Targets, angle.Deg(vals[2]))
		result.Commands = append(result.Commands, angle.DegPerSec(vals[3]))
	}
	return result, nil
}
