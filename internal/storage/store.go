package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/esim/internal/config"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

var ErrMalformed = errors.New("storage: malformed frames file")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	frameFields  = 7
	bodyFields   = 6
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

type BodyInfo struct {
	ID     int     `json:"id"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Bounds      kinetic.Bounds     `json:"bounds"`
	Layout      string             `json:"layout"`
	Advance     string             `json:"advance"`
	MaxAdvance  float64            `json:"max_advance"`
	Steps       int                `json:"steps"`
	Time        float64            `json:"time"`
	EnergyDrift float64            `json:"energy_drift"`
	Bodies      []BodyInfo         `json:"bodies"`
	Events      map[string]int     `json:"events"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and frames.csv for a finished run and returns
// the new run id. Frames come from result.Frames, so the run must have been
// recorded for frames.csv to hold more than a header.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	for i := 1; s.exists(runID); i++ {
		runID = fmt.Sprintf("%s_%d_%d", name, time.Now().Unix(), i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   time.Now(),
		Seed:        result.Seed,
		Bounds:      cfg.Bounds,
		Layout:      string(cfg.Spawn.Layout),
		Advance:     cfg.Advance,
		MaxAdvance:  cfg.MaxAdvance,
		Steps:       result.StepsTaken,
		Time:        result.Time,
		EnergyDrift: result.EnergyDrift,
		Bodies:      make([]BodyInfo, len(result.Final.Bodies)),
		Events:      make(map[string]int),
		Metrics:     result.Metrics,
	}
	for i, b := range result.Final.Bodies {
		meta.Bodies[i] = BodyInfo{ID: b.ID, Radius: b.Radius, Mass: b.Mass}
	}
	for kind, n := range result.Events {
		meta.Events[kind.String()] = n
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, len(meta.Bodies), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) exists(runID string) bool {
	_, err := os.Stat(filepath.Join(s.baseDir, runID))
	return err == nil
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

// WriteFrames writes one CSV row per frame: time, step, event kind, event
// time, event bodies, whether velocities changed, then x,y,z,vx,vy,vz for
// each body.
func WriteFrames(out io.Writer, numBodies int, frames []sim.Frame) error {
	w := csv.NewWriter(out)

	header := []string{"time", "step", "kind", "dt", "a", "b", "changed"}
	for i := 0; i < numBodies; i++ {
		for _, c := range []string{"x", "y", "z", "vx", "vy", "vz"} {
			header = append(header, fmt.Sprintf("%s%d", c, i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			formatFloat(f.Time),
			strconv.Itoa(f.Step),
			f.Event.Kind.String(),
			formatFloat(f.Event.Time),
			strconv.Itoa(f.Event.A),
			strconv.Itoa(f.Event.B),
			changedFlag(f.Changed),
		}
		for _, b := range f.Bodies {
			for _, v := range [...]float64{b.Pos[0], b.Pos[1], b.Pos[2], b.Vel[0], b.Vel[1], b.Vel[2]} {
				row = append(row, formatFloat(v))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func changedFlag(c bool) string {
	if c {
		return "1"
	}
	return "0"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// FramesPath is where the frames of runID live.
func (s *Store) FramesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}

// LoadFrames reads the recorded frames of a run back, filling in radius and
// mass from the metadata and the highlight flags from each event.
func (s *Store) LoadFrames(runID string) (*RunMetadata, []sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(s.FramesPath(runID))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	frames, err := ReadFrames(file, meta.Bodies)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func ReadFrames(in io.Reader, bodies []BodyInfo) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	want := frameFields + bodyFields*len(bodies)
	frames := make([]sim.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != want {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", ErrMalformed, i+1, len(record), want)
		}
		f, err := parseFrame(record, bodies)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, i+1, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(record []string, bodies []BodyInfo) (sim.Frame, error) {
	var f sim.Frame
	var err error

	if f.Time, err = strconv.ParseFloat(record[0], 64); err != nil {
		return f, err
	}
	if f.Step, err = strconv.Atoi(record[1]); err != nil {
		return f, err
	}
	if f.Event.Kind, err = kinetic.ParseKind(record[2]); err != nil {
		return f, err
	}
	if f.Event.Time, err = strconv.ParseFloat(record[3], 64); err != nil {
		return f, err
	}
	if f.Event.A, err = strconv.Atoi(record[4]); err != nil {
		return f, err
	}
	if f.Event.B, err = strconv.Atoi(record[5]); err != nil {
		return f, err
	}
	if f.Changed, err = strconv.ParseBool(record[6]); err != nil {
		return f, err
	}

	f.Bodies = make([]sim.BodyState, len(bodies))
	for i, info := range bodies {
		var vals [bodyFields]float64
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[frameFields+i*bodyFields+j], 64); err != nil {
				return f, err
			}
		}
		f.Bodies[i] = sim.BodyState{
			ID:     info.ID,
			Pos:    mgl64.Vec3{vals[0], vals[1], vals[2]},
			Vel:    mgl64.Vec3{vals[3], vals[4], vals[5]},
			Radius: info.Radius,
			Mass:   info.Mass,
		}
	}
	if f.Changed {
		for _, i := range f.Event.Participants() {
			if i >= 0 && i < len(f.Bodies) {
				f.Bodies[i].Highlighted = true
			}
		}
	}
	return f, nil
}
