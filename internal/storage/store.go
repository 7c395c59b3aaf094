// Package storage persists simulation runs as directories holding
// metadata.json and orbits.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/gyrosim/internal/sim"
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
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	FieldModel string             `json:"field_model"`
	Electric   string             `json:"electric_model"`
	AxisR      float64            `json:"axis_r"`
	AxisZ      float64            `json:"axis_z"`
	Markers    int                `json:"markers"`
	Steps      int                `json:"steps"`
	End        map[string]int     `json:"end_reasons"`
	Metrics    map[string]float64 `json:"metrics"`
}

var orbitHeader = []string{"lane", "time", "r", "phi", "z", "vpar", "mu", "theta", "rho", "pol"}

// Save writes one run and returns its id.
func (s *Store) Save(fieldModel, electricModel string, axisR, axisZ float64, res *sim.Result, metricVals map[string]float64) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	endCounts := make(map[string]int)
	for _, reason := range res.End {
		endCounts[string(reason)]++
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		FieldModel: fieldModel,
		Electric:   electricModel,
		AxisR:      axisR,
		AxisZ:      axisZ,
		Markers:    len(res.History),
		Steps:      res.Steps,
		End:        endCounts,
		Metrics:    metricVals,
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

	csvFile, err := os.Create(filepath.Join(runDir, "orbits.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(orbitHeader); err != nil {
		return "", err
	}

	for lane, hist := range res.History {
		for _, pt := range hist {
			row := []string{
				strconv.Itoa(lane),
				fmtF(pt.T), fmtF(pt.R), fmtF(pt.Phi), fmtF(pt.Z),
				fmtF(pt.Vpar), fmtF(pt.Mu), fmtF(pt.Theta),
				fmtF(pt.Rho), fmtF(pt.Pol),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

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

// LoadOrbits reads a run's recorded history back into per-lane samples.
func (s *Store) LoadOrbits(runID string) ([][]sim.OrbitPoint, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "orbits.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]sim.OrbitPoint{}, nil
	}

	var history [][]sim.OrbitPoint
	for _, rec := range records[1:] {
		if len(rec) != len(orbitHeader) {
			continue
		}
		lane, err := strconv.Atoi(rec[0])
		if err != nil || lane < 0 {
			continue
		}
		vals := make([]float64, len(rec)-1)
		ok := true
		for j := 1; j < len(rec); j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j-1] = v
		}
		if !ok {
			continue
		}
		for lane >= len(history) {
			history = append(history, nil)
		}
		history[lane] = append(history[lane], sim.OrbitPoint{
			T: vals[0], R: vals[1], Phi: vals[2], Z: vals[3],
			Vpar: vals[4], Mu: vals[5], Theta: vals[6],
			Rho: vals[7], Pol: vals[8],
		})
	}

	return history, nil
}
