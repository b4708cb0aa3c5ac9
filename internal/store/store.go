// Package store persists recorded monitor sessions: one directory per
// session holding metadata JSON and a CSV of the sampled traces.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
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

type SessionMetadata struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Seed        int64     `json:"seed"`
	Duration    float64   `json:"duration"`
	TickMillis  int       `json:"tick_ms"`
	FilterOrder int       `json:"filter_order"`
	Cutoff      float64   `json:"cutoff_hz"`
	Tracks      []string  `json:"tracks,omitempty"`
}

// Save writes a session to disk and returns its generated ID.
func (s *Store) Save(meta SessionMetadata, times, ecg, icp []float64) (string, error) {
	if len(times) != len(ecg) || len(times) != len(icp) {
		return "", fmt.Errorf("mismatched sample lengths: %d times, %d ecg, %d icp", len(times), len(ecg), len(icp))
	}

	sessionID := fmt.Sprintf("vitals_%d", time.Now().Unix())
	sessionDir := filepath.Join(s.baseDir, sessionID)
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return "", err
	}

	meta.ID = sessionID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(sessionDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(sessionDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "ecg", "icp"}); err != nil {
		return "", err
	}
	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatFloat(ecg[i], 'f', 6, 64),
			strconv.FormatFloat(icp[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return sessionID, nil
}

func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	sessions := make([]SessionMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta SessionMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		sessions = append(sessions, meta)
	}

	return sessions, nil
}

func (s *Store) Load(sessionID string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, sessionID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads a session's traces back: times, ecg, icp.
func (s *Store) LoadSamples(sessionID string) ([]float64, []float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, sessionID, "samples.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	ecg := make([]float64, 0, len(records)-1)
	icp := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		t, err1 := strconv.ParseFloat(record[0], 64)
		e, err2 := strconv.ParseFloat(record[1], 64)
		p, err3 := strconv.ParseFloat(record[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		times = append(times, t)
		ecg = append(ecg, e)
		icp = append(icp, p)
	}

	return times, ecg, icp, nil
}

type sessionExport struct {
	SessionMetadata
	Times []float64 `json:"times"`
	ECG   []float64 `json:"ecg"`
	ICP   []float64 `json:"icp"`
}

// ExportJSON writes a session with its samples as indented JSON.
func (s *Store) ExportJSON(w io.Writer, sessionID string) error {
	meta, err := s.Load(sessionID)
	if err != nil {
		return err
	}
	times, ecg, icp, err := s.LoadSamples(sessionID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sessionExport{
		SessionMetadata: *meta,
		Times:           times,
		ECG:             ecg,
		ICP:             icp,
	})
}
