package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/spherelab/internal/dynamo"
)

// frame, time, sign, contacts
const fixedColumns = 4

type ExportData struct {
	ID      string             `json:"id"`
	Seed    int64              `json:"seed"`
	Radii   []float64          `json:"radii"`
	Frames  []ExportFrame      `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
}

type ExportFrame struct {
	Frame    uint64       `json:"frame"`
	Time     float64      `json:"time"`
	Sign     float64      `json:"sign"`
	Contacts int          `json:"contacts"`
	Centers  [][3]float64 `json:"centers"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames []dynamo.Snapshot) error {
	data := ExportData{
		ID:      meta.ID,
		Seed:    meta.Seed,
		Radii:   meta.Radii,
		Frames:  make([]ExportFrame, len(frames)),
		Metrics: meta.Metrics,
	}

	for i, f := range frames {
		centers := make([][3]float64, f.Centers.Bodies())
		for j := range centers {
			centers[j] = f.Centers.Vec(j)
		}
		data.Frames[i] = ExportFrame{
			Frame:    f.Frame,
			Time:     f.Time,
			Sign:     f.Sign,
			Contacts: f.Contacts,
			Centers:  centers,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes a header and one row per snapshot: frame, time, sign,
// contacts, then x,y,z for each sphere in creation order.
func WriteCSV(out io.Writer, frames []dynamo.Snapshot) error {
	w := csv.NewWriter(out)

	bodies := 0
	if len(frames) > 0 {
		bodies = frames[0].Centers.Bodies()
	}

	header := []string{"frame", "time", "sign", "contacts"}
	for i := 0; i < bodies; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		if f.Centers.Bodies() != bodies {
			return fmt.Errorf("frame %d has %d bodies, want %d: %w", f.Frame, f.Centers.Bodies(), bodies, dynamo.ErrDimensionMismatch)
		}
		row := []string{
			strconv.FormatUint(f.Frame, 10),
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.FormatFloat(f.Sign, 'f', 0, 64),
			strconv.Itoa(f.Contacts),
		}
		for _, val := range f.Centers {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
