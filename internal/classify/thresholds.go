// v0
// internal/classify/thresholds.go
package classify

import (
	"encoding/json"
	"fmt"
	"os"

	"tumbuhkan/hydro/internal/feature"
)

// Band covers ph/tds style five-class dimensions. A value classifies as
// Too Low below TooLowMax, Low below LowMax, Normal up to NormalMax, High up
// to HighMax, Too High above.
type Band struct {
	TooLowMax float64 `json:"too_low_max"`
	LowMax    float64 `json:"low_max"`
	NormalMax float64 `json:"normal_max"`
	HighMax   float64 `json:"high_max"`
}

// AmbientBand covers the three-class temperature+humidity dimension.
// Ideal requires both readings inside the ideal window; Bad fires when
// either reading is outside the outer window; everything between is
// Slightly Off.
type AmbientBand struct {
	TempIdealMin float64 `json:"temp_ideal_min"`
	TempIdealMax float64 `json:"temp_ideal_max"`
	TempBadMin   float64 `json:"temp_bad_min"`
	TempBadMax   float64 `json:"temp_bad_max"`
	HumIdealMin  float64 `json:"hum_ideal_min"`
	HumIdealMax  float64 `json:"hum_ideal_max"`
	HumBadMin    float64 `json:"hum_bad_min"`
	HumBadMax    float64 `json:"hum_bad_max"`
}

// LightBand covers the three-class LDR dimension.
type LightBand struct {
	DarkMax   float64 `json:"dark_max"`
	NormalMax float64 `json:"normal_max"`
}

// ThresholdModel is the loadable model artifact: the decision boundaries the
// training pipeline produced, serialized as JSON.
type ThresholdModel struct {
	PH      Band        `json:"ph"`
	TDS     Band        `json:"tds"`
	Ambient AmbientBand `json:"ambient"`
	Light   LightBand   `json:"light"`
}

// LoadThresholdModel reads a model artifact from disk.
func LoadThresholdModel(path string) (*ThresholdModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var m ThresholdModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	return &m, nil
}

// Predict implements Model. Output order is fixed: (ph, tds, ambient, light).
func (m *ThresholdModel) Predict(v feature.Vector) ([4]int, error) {
	ph, tds := v[0], v[1]
	airHum, airTemp, ldr := v[3], v[4], v[5]

	return [4]int{
		m.PH.classify(ph),
		m.TDS.classify(tds),
		m.Ambient.classify(airTemp, airHum),
		m.Light.classify(ldr),
	}, nil
}

func (b Band) classify(x float64) int {
	switch {
	case x < b.TooLowMax:
		return 0
	case x < b.LowMax:
		return 1
	case x <= b.NormalMax:
		return 2
	case x <= b.HighMax:
		return 3
	default:
		return 4
	}
}

func (b AmbientBand) classify(temp, hum float64) int {
	tempIdeal := temp >= b.TempIdealMin && temp <= b.TempIdealMax
	humIdeal := hum >= b.HumIdealMin && hum <= b.HumIdealMax
	if tempIdeal && humIdeal {
		return 2
	}
	if temp < b.TempBadMin || temp > b.TempBadMax || hum < b.HumBadMin || hum > b.HumBadMax {
		return 0
	}
	return 1
}

func (b LightBand) classify(ldr float64) int {
	switch {
	case ldr < b.DarkMax:
		return 0
	case ldr <= b.NormalMax:
		return 1
	default:
		return 2
	}
}
