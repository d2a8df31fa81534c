// v0
// internal/store/history.go
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// historyHeader matches the prediction snapshot minus output/icon/color.
var historyHeader = []string{
	"timestamp", "ph", "tds", "water_flow", "air_humidity", "air_temperature",
	"ldr_value", "water_temperature", "water_level",
	"ph_label", "tds_label", "ambient_label", "light_label", "status",
}

// AppendHistory appends one row to the CSV log, writing the header first if
// the file does not exist yet. Rows are never mutated after the append.
func (s *Store) AppendHistory(snap PredictionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, historyFile)
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("write history header: %w", err)
		}
	}
	row := []string{
		snap.Timestamp,
		fmtFloat(snap.PH), fmtFloat(snap.TDS), fmtFloat(snap.WaterFlow),
		fmtFloat(snap.AirHumidity), fmtFloat(snap.AirTemperature),
		fmtFloat(snap.LDRValue), fmtFloat(snap.WaterTemperature), fmtFloat(snap.WaterLevel),
		snap.PHLabel, snap.TDSLabel, snap.AmbientLabel, snap.LightLabel, snap.Status,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write history row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// History snapshot-reads the log and returns up to limit most recent rows
// (all rows when limit <= 0). There is no lock against the writer; a read
// racing an append may simply miss the newest row, which is acceptable for
// an advisory log.
func (s *Store) History(limit int) ([]PredictionSnapshot, error) {
	f, err := os.Open(filepath.Join(s.dir, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(historyHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history log: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	rows := records[1:] // skip header
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	out := make([]PredictionSnapshot, 0, len(rows))
	for _, rec := range rows {
		out = append(out, PredictionSnapshot{
			Timestamp:        rec[0],
			PH:               parseFloat(rec[1]),
			TDS:              parseFloat(rec[2]),
			WaterFlow:        parseFloat(rec[3]),
			AirHumidity:      parseFloat(rec[4]),
			AirTemperature:   parseFloat(rec[5]),
			LDRValue:         parseFloat(rec[6]),
			WaterTemperature: parseFloat(rec[7]),
			WaterLevel:       parseFloat(rec[8]),
			PHLabel:          rec[9],
			TDSLabel:         rec[10],
			AmbientLabel:     rec[11],
			LightLabel:       rec[12],
			Status:           rec[13],
		})
	}
	return out, nil
}

// ClearHistory removes the whole log; the next append recreates it with a
// fresh header.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, historyFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear history log: %w", err)
	}
	return nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
