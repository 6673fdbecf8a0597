package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/dtesn/internal/engine"
	"github.com/san-kum/dtesn/internal/membrane"
)

// Store persists evolution runs under a base directory, one subdirectory
// per run: metadata.json, hierarchy.json, objects.csv.
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
	ID               string    `json:"id"`
	Config           string    `json:"config"`
	Timestamp        time.Time `json:"timestamp"`
	Strategy         string    `json:"strategy"`
	Seed             int64     `json:"seed"`
	Cycles           int       `json:"cycles"`
	RulesApplied     int64     `json:"rules_applied"`
	ElapsedUS        int64     `json:"elapsed_us"`
	PerformanceScore float64   `json:"performance_score"`
	BudgetExceeded   bool      `json:"budget_exceeded"`
	Halted           bool      `json:"halted"`
	Membranes        int       `json:"membranes"`
}

// ObjectRow is one (membrane, object) multiplicity in objects.csv.
type ObjectRow struct {
	MembraneID int
	Label      string
	Type       string
	Depth      int
	Object     string
	Count      int
}

// Save writes one run and returns its id.
func (s *Store) Save(strategy string, seed int64, m engine.Metrics, h *membrane.Hierarchy) (string, error) {
	runID := fmt.Sprintf("%s_%d", h.Name(), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Config:           h.Name(),
		Timestamp:        time.Now(),
		Strategy:         strategy,
		Seed:             seed,
		Cycles:           m.Cycles,
		RulesApplied:     m.RulesApplied,
		ElapsedUS:        m.Elapsed.Microseconds(),
		PerformanceScore: m.PerformanceScore,
		BudgetExceeded:   m.BudgetExceeded,
		Halted:           h.Halted(),
		Membranes:        h.Len(),
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "hierarchy.json"), h.TreeView()); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "objects.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"membrane", "label", "type", "depth", "object", "count"}); err != nil {
		return "", err
	}
	var writeErr error
	h.Walk(func(mem *membrane.Membrane) {
		if writeErr != nil {
			return
		}
		for obj, count := range mem.Objects {
			writeErr = w.Write([]string{
				strconv.Itoa(mem.ID), mem.Label, mem.Type.String(),
				strconv.Itoa(mem.Depth), obj, strconv.Itoa(count),
			})
			if writeErr != nil {
				return
			}
		}
	})
	if writeErr != nil {
		return "", writeErr
	}

	return runID, nil
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

// LoadHierarchy reads the saved tree snapshot.
func (s *Store) LoadHierarchy(runID string) (*membrane.View, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "hierarchy.json"))
	if err != nil {
		return nil, err
	}
	var view membrane.View
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// LoadObjects reads the final object distribution of a run.
func (s *Store) LoadObjects(runID string) ([]ObjectRow, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "objects.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]ObjectRow, 0, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) != 6 {
			continue
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		depth, err := strconv.Atoi(rec[3])
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(rec[5])
		if err != nil {
			continue
		}
		rows = append(rows, ObjectRow{
			MembraneID: id, Label: rec[1], Type: rec[2],
			Depth: depth, Object: rec[4], Count: count,
		})
	}
	return rows, nil
}
