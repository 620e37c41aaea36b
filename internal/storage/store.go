// Package storage persists finalized runs: metadata as JSON and the
// trajectory as CSV, one directory per run.
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

	"github.com/san-kum/podsim/internal/sim"
)

// Columns is the trajectory CSV header. The order matches writeRow.
var Columns = []string{
	"time", "phase", "velocity", "acceleration", "distance", "theta",
	"omega", "torque", "motor_torque", "slip", "thrust", "force",
	"power_out", "power_loss", "power_in", "efficiency",
}

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
	Timestamp time.Time          `json:"timestamp"`
	Model     string             `json:"model"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Wheels    int                `json:"wheels"`
	Brakes    int                `json:"brakes"`
	Trigger   string             `json:"brake_trigger"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one finalized run and returns its id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = result.Steps
	meta.Metrics = result.Metrics

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

	if err := w.Write(Columns); err != nil {
		return "", err
	}
	for i, rec := range result.Records {
		row := []string{
			formatFloat(result.Times[i]),
			result.Phases[i].String(),
			formatFloat(rec.Velocity),
			formatFloat(rec.Accel),
			formatFloat(rec.Distance),
			formatFloat(rec.Theta),
			formatFloat(rec.Omega),
			formatFloat(rec.Torque),
			formatFloat(rec.MotorTorque),
			formatFloat(rec.Slip),
			formatFloat(rec.Thrust),
			formatFloat(rec.Force),
			formatFloat(rec.PowerOut),
			formatFloat(rec.PowerLoss),
			formatFloat(rec.PowerIn),
			formatFloat(rec.Efficiency),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Load reads a run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// List returns metadata for all stored runs, oldest first.
func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var metas []*RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip partial or foreign directories
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Timestamp.Before(metas[j].Timestamp) })
	return metas, nil
}

// Trajectory is a stored run's column data keyed by column name, plus the
// phase strings.
type Trajectory struct {
	Columns map[string][]float64
	Phases  []string
}

// LoadTrajectory reads a run's trajectory CSV back into columns.
func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
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
		return nil, fmt.Errorf("storage: %s: empty trajectory", runID)
	}

	header := rows[0]
	traj := &Trajectory{Columns: make(map[string][]float64, len(header))}
	for _, row := range rows[1:] {
		for j, cell := range row {
			if header[j] == "phase" {
				traj.Phases = append(traj.Phases, cell)
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s: bad value %q in %s: %w", runID, cell, header[j], err)
			}
			traj.Columns[header[j]] = append(traj.Columns[header[j]], v)
		}
	}
	return traj, nil
}
