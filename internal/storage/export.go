package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

type ExportData struct {
	Name    string             `json:"name"`
	Seed    int64              `json:"seed"`
	Bounds  kinetic.Bounds     `json:"bounds"`
	Bodies  []BodyInfo         `json:"bodies"`
	Steps   int                `json:"steps"`
	Frames  []ExportFrame      `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
}

type ExportFrame struct {
	Time        float64      `json:"time"`
	Step        int          `json:"step"`
	Event       string       `json:"event"`
	Positions   [][3]float64 `json:"positions"`
	Velocities  [][3]float64 `json:"velocities"`
	Highlighted []int        `json:"highlighted,omitempty"`
}

func NewExportData(meta *RunMetadata, frames []sim.Frame) ExportData {
	data := ExportData{
		Name:    meta.Name,
		Seed:    meta.Seed,
		Bounds:  meta.Bounds,
		Bodies:  meta.Bodies,
		Steps:   meta.Steps,
		Frames:  make([]ExportFrame, len(frames)),
		Metrics: meta.Metrics,
	}

	for i, f := range frames {
		ef := ExportFrame{
			Time:        f.Time,
			Step:        f.Step,
			Event:       f.Event.String(),
			Positions:   make([][3]float64, len(f.Bodies)),
			Velocities:  make([][3]float64, len(f.Bodies)),
			Highlighted: f.Highlighted(),
		}
		for j, b := range f.Bodies {
			ef.Positions[j] = b.Pos
			ef.Velocities[j] = b.Vel
		}
		data.Frames[i] = ef
	}
	return data
}

func WriteJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, frames))
}

func ExportJSON(path string, meta *RunMetadata, frames []sim.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, frames)
}

func ExportJSONStdout(meta *RunMetadata, frames []sim.Frame) error {
	return WriteJSON(os.Stdout, meta, frames)
}

// ExportCSV copies the recorded frames of runID to path.
func (s *Store) ExportCSV(runID, path string) error {
	src, err := os.Open(s.FramesPath(runID))
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
