package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var (
	ErrNotFound   = errors.New("storage: run not found")
	ErrBadRecord  = errors.New("storage: malformed trajectory record")
	ErrNoMetadata = errors.New("storage: metadata is required")
	ErrNoResult   = errors.New("storage: result is required")
)

var trajectoryHeader = []string{
	"tick", "time", "body",
	"x", "y", "z",
	"vx", "vy", "vz",
	"screen_x", "screen_y", "radius",
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

// RunMetadata describes an archived run. Metric values that are not finite
// cannot be encoded as JSON; their names are listed in NonFiniteMetrics.
type RunMetadata struct {
	ID               string             `json:"id"`
	Scenario         string             `json:"scenario"`
	Timestamp        time.Time          `json:"timestamp"`
	Seed             int64              `json:"seed"`
	Dt               float64            `json:"dt"`
	G                float64            `json:"g"`
	Ticks            int                `json:"ticks"`
	SampleEvery      int                `json:"sample_every"`
	Width            float64            `json:"width"`
	Height           float64            `json:"height"`
	Bodies           int                `json:"bodies"`
	Colors           []string           `json:"colors"`
	NonFiniteTicks   int                `json:"non_finite_ticks"`
	Metrics          map[string]float64 `json:"metrics"`
	NonFiniteMetrics []string           `json:"non_finite_metrics,omitempty"`
}

// Save writes meta and the recorded frames of result under a new run
// directory and returns its id. meta.ID and meta.Timestamp are filled in.
// A run that fails to write leaves no directory behind.
func (s *Store) Save(meta *RunMetadata, result *sim.Result) (string, error) {
	if meta == nil {
		return "", ErrNoMetadata
	}
	if result == nil {
		return "", ErrNoResult
	}

	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir, err := s.newRunDir(fmt.Sprintf("%s_%d", meta.Scenario, now.UnixMilli()))
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.NonFiniteTicks = result.NonFiniteTicks
	meta.Metrics, meta.NonFiniteMetrics = splitMetrics(result.Metrics)

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("storage: write metadata: %w", err)
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Frames); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("storage: write trajectory: %w", err)
	}

	return runID, nil
}

// newRunDir creates a fresh directory for base, adding a numeric suffix when
// a run with the same id already exists.
func (s *Store) newRunDir(base string) (string, string, error) {
	id := base
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrajectory(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteTrajectory(f, frames); err != nil {
		return err
	}
	return f.Close()
}

// WriteTrajectory writes one CSV row per body per frame.
func WriteTrajectory(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}

	row := make([]string, len(trajectoryHeader))
	for _, fr := range frames {
		for i, b := range fr.Bodies {
			row[0] = strconv.Itoa(fr.Tick)
			row[1] = formatFloat(fr.Time)
			row[2] = strconv.Itoa(i)
			row[3] = formatFloat(b.Position.X())
			row[4] = formatFloat(b.Position.Y())
			row[5] = formatFloat(b.Position.Z())
			row[6] = formatFloat(b.Velocity.X())
			row[7] = formatFloat(b.Velocity.Y())
			row[8] = formatFloat(b.Velocity.Z())
			row[9] = formatFloat(b.ScreenX)
			row[10] = formatFloat(b.ScreenY)
			row[11] = formatFloat(b.Radius)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// List returns the metadata of every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: parse metadata of %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory rebuilds the recorded frames of a run.
func (s *Store) LoadTrajectory(runID string) ([]sim.Frame, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	return ReadTrajectory(f)
}

// ReadTrajectory parses rows written by WriteTrajectory. Rows are grouped
// into frames by tick, in file order.
func ReadTrajectory(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trajectoryHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0)
	for line, rec := range records[1:] {
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line+2, err)
		}

		vals := make([]float64, len(rec))
		for j := 1; j < len(rec); j++ {
			if j == 2 {
				continue
			}
			vals[j], err = strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line+2, err)
			}
		}

		if len(frames) == 0 || frames[len(frames)-1].Tick != tick {
			frames = append(frames, sim.Frame{Tick: tick, Time: vals[1]})
		}
		fr := &frames[len(frames)-1]
		fr.Bodies = append(fr.Bodies, sim.BodySample{
			Position: mgl64.Vec3{vals[3], vals[4], vals[5]},
			Velocity: mgl64.Vec3{vals[6], vals[7], vals[8]},
			ScreenX:  vals[9],
			ScreenY:  vals[10],
			Radius:   vals[11],
		})
	}

	return frames, nil
}

func splitMetrics(in map[string]float64) (map[string]float64, []string) {
	out := make(map[string]float64, len(in))
	var bad []string
	for name, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, name)
			continue
		}
		out[name] = v
	}
	sort.Strings(bad)
	return out, bad
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
