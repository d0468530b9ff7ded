package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joephys/joephys/internal/config"
	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	framesFile    = "frames.csv"
	particlesFile = "particles.csv"
)

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
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Hertz     int                `json:"hertz"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Spawned   int                `json:"spawned"`
	Particles int                `json:"particles"`
	ElapsedMs float64            `json:"elapsed_ms"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config"`
}

// Save writes a run directory holding metadata, per-frame summaries and the
// final particle snapshot, and returns the run id.
func (s *Store) Save(preset string, cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: now,
		Hertz:     cfg.SimulationHertz,
		Duration:  cfg.Run.Duration,
		Steps:     result.StepsTaken,
		Spawned:   result.Spawned,
		Particles: len(result.Final),
		ElapsedMs: float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:   result.Metrics,
		Config:    cfg,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	frames := [][]string{{"step", "time", "particles", "kinetic", "potential", "bounces"}}
	for _, f := range result.Frames {
		frames = append(frames, []string{
			strconv.Itoa(f.Step),
			formatFloat(f.Time),
			strconv.Itoa(f.Particles),
			formatFloat(f.Kinetic),
			formatFloat(f.Potential),
			strconv.Itoa(f.Bounces),
		})
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), frames); err != nil {
		return "", err
	}

	circles := [][]string{{"x", "y", "radius", "r", "g", "b", "a", "layer"}}
	for _, c := range result.Final {
		circles = append(circles, []string{
			formatFloat(c.Position.X),
			formatFloat(c.Position.Y),
			formatFloat(c.Radius),
			formatFloat(c.Colour.R),
			formatFloat(c.Colour.G),
			formatFloat(c.Colour.B),
			formatFloat(c.Colour.A),
			strconv.Itoa(c.Layer),
		})
	}
	if err := writeCSV(filepath.Join(runDir, particlesFile), circles); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0, len(records))
	for _, rec := range records {
		if len(rec) < 6 {
			continue
		}
		nums, ok := parseFloats(rec)
		if !ok {
			continue
		}
		frames = append(frames, sim.Frame{
			Step:      int(nums[0]),
			Time:      nums[1],
			Particles: int(nums[2]),
			Kinetic:   nums[3],
			Potential: nums[4],
			Bounces:   int(nums[5]),
		})
	}

	return frames, nil
}

func (s *Store) LoadParticles(runID string) ([]dynamo.Circle, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}

	circles := make([]dynamo.Circle, 0, len(records))
	for _, rec := range records {
		if len(rec) < 8 {
			continue
		}
		nums, ok := parseFloats(rec)
		if !ok {
			continue
		}
		circles = append(circles, dynamo.Circle{
			Position: dynamo.V(nums[0], nums[1]),
			Radius:   nums[2],
			Colour:   dynamo.RGBA(nums[3], nums[4], nums[5], nums[6]),
			Layer:    int(nums[7]),
		})
	}

	return circles, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// readCSV returns the data rows, skipping the header.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(rec []string) ([]float64, bool) {
	out := make([]float64, len(rec))
	for i, field := range rec {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
