package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/spherelab/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
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

// RunInfo describes how a run was set up.
type RunInfo struct {
	Preset       string
	Seed         int64
	Timestep     float64
	ImpulseScale float64
	Radii        []float64
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Preset       string             `json:"preset"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Count        int                `json:"count"`
	Frames       int                `json:"frames"`
	Timestep     float64            `json:"timestep"`
	ImpulseScale float64            `json:"impulse_scale"`
	Radii        []float64          `json:"radii"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and one frames.csv row per kept snapshot.
func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("spheres_%d", now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Preset:       info.Preset,
		Timestamp:    now,
		Seed:         info.Seed,
		Count:        len(info.Radii),
		Frames:       result.Frames,
		Timestep:     info.Timestep,
		ImpulseScale: info.ImpulseScale,
		Radii:        info.Radii,
		Metrics:      result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Snapshots); err != nil {
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
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads the recorded snapshots back. Radii and masses are not
// stored per row and are left empty.
func (s *Store) LoadFrames(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []dynamo.Snapshot{}, nil
	}

	frames := make([]dynamo.Snapshot, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		snap, err := parseRow(records[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
		}
		frames = append(frames, snap)
	}

	return frames, nil
}

func parseRow(record []string) (dynamo.Snapshot, error) {
	if len(record) < fixedColumns || (len(record)-fixedColumns)%3 != 0 {
		return dynamo.Snapshot{}, fmt.Errorf("%d columns: %w", len(record), dynamo.ErrDimensionMismatch)
	}

	frame, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil {
		return dynamo.Snapshot{}, err
	}
	vals := make([]float64, len(record)-1)
	for j := 1; j < len(record); j++ {
		if j == 3 {
			continue
		}
		v, err := strconv.ParseFloat(record[j], 64)
		if err != nil {
			return dynamo.Snapshot{}, err
		}
		vals[j-1] = v
	}
	contacts, err := strconv.Atoi(record[3])
	if err != nil {
		return dynamo.Snapshot{}, err
	}

	return dynamo.Snapshot{
		Frame:    frame,
		Time:     vals[0],
		Sign:     vals[1],
		Contacts: contacts,
		Centers:  dynamo.State(vals[fixedColumns-1:]),
	}, nil
}
