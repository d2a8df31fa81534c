// v0
// internal/store/store.go
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"tumbuhkan/hydro/internal/plan"
)

const (
	predictionFile = "latest_prediction.json"
	actuatorFile   = "latest_actuator.json"
	historyFile    = "prediction_log.csv"
)

// PredictionSnapshot is the single "latest known state" record for the
// whole rig: raw reading, labels, and derived status, flat as persisted.
type PredictionSnapshot struct {
	Timestamp        string  `json:"timestamp"`
	PH               float64 `json:"ph"`
	TDS              float64 `json:"tds"`
	WaterFlow        float64 `json:"water_flow"`
	AirHumidity      float64 `json:"air_humidity"`
	AirTemperature   float64 `json:"air_temperature"`
	LDRValue         float64 `json:"ldr_value"`
	WaterTemperature float64 `json:"water_temperature"`
	WaterLevel       float64 `json:"water_level"`
	PHLabel          string  `json:"ph_label"`
	TDSLabel         string  `json:"tds_label"`
	AmbientLabel     string  `json:"ambient_label"`
	LightLabel       string  `json:"light_label"`
	Status           string  `json:"status"`
	Output           string  `json:"output"`
	Icon             string  `json:"icon"`
	Color            string  `json:"color"`
}

// ActuatorSnapshot is the last hardware state the device reported back,
// distinct from any command the system sent.
type ActuatorSnapshot struct {
	plan.Command
	Timestamp string `json:"timestamp"`
}

// Store is the single-writer/many-reader bridge between the ingestion actor
// and the presentation layer: two full-replace JSON documents plus one
// append-only CSV log. Snapshot writes go through a temp file and rename so
// readers never observe a half-written document.
type Store struct {
	dir string
	lg  *slog.Logger

	mu sync.Mutex // serializes history appends (header-on-first-write)
}

// New creates the data directory if needed and returns the store.
func New(dir string, lg *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir data dir: %w", err)
	}
	return &Store{dir: dir, lg: lg.With(slog.String("component", "store"))}, nil
}

// PutPrediction atomically replaces the latest prediction document.
func (s *Store) PutPrediction(snap PredictionSnapshot) error {
	return s.putJSON(predictionFile, snap)
}

// LatestPrediction returns the latest prediction, or ok=false when no
// document has been written yet (or it cannot be read).
func (s *Store) LatestPrediction() (PredictionSnapshot, bool) {
	var snap PredictionSnapshot
	ok := s.getJSON(predictionFile, &snap)
	return snap, ok
}

// PutActuator atomically replaces the latest actuator document.
func (s *Store) PutActuator(snap ActuatorSnapshot) error {
	return s.putJSON(actuatorFile, snap)
}

// LatestActuator returns the last reported actuator state, or ok=false.
func (s *Store) LatestActuator() (ActuatorSnapshot, bool) {
	var snap ActuatorSnapshot
	ok := s.getJSON(actuatorFile, &snap)
	return snap, ok
}

func (s *Store) putJSON(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	final := filepath.Join(s.dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) getJSON(name string, v any) bool {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.lg.Warn("unreadable snapshot", "file", name, "error", err)
		return false
	}
	return true
}
