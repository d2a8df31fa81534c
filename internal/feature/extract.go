// v0
// internal/feature/extract.go
package feature

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Policy names the behavior applied to missing or unparsable sensor fields.
type Policy int

const (
	// DefaultZero substitutes 0.0 for any field that is absent or not a
	// number. Extraction never fails under this policy.
	DefaultZero Policy = iota
)

// Vector is the fixed-order feature tuple the classifier expects:
// (ph, tds, water_temperature, air_humidity, air_temperature, ldr_value).
// The model is order-sensitive, so the layout must not change.
type Vector [6]float64

// SensorReading is one telemetry sample as received on the sensor channel.
type SensorReading struct {
	PH               float64 `json:"ph"`
	TDS              float64 `json:"tds"`
	WaterFlow        float64 `json:"water_flow"`
	AirHumidity      float64 `json:"air_humidity"`
	AirTemperature   float64 `json:"air_temperature"`
	LDRValue         float64 `json:"ldr_value"`
	WaterTemperature float64 `json:"water_temperature"`
	WaterLevel       float64 `json:"water_level"`
}

// ReadingFrom normalizes an arbitrary payload into a SensorReading.
// Extra keys are ignored; missing or non-numeric keys follow the policy.
func ReadingFrom(payload map[string]any, p Policy) SensorReading {
	return SensorReading{
		PH:               fieldFloat(payload, "ph", p),
		TDS:              fieldFloat(payload, "tds", p),
		WaterFlow:        fieldFloat(payload, "water_flow", p),
		AirHumidity:      fieldFloat(payload, "air_humidity", p),
		AirTemperature:   fieldFloat(payload, "air_temperature", p),
		LDRValue:         fieldFloat(payload, "ldr_value", p),
		WaterTemperature: fieldFloat(payload, "water_temperature", p),
		WaterLevel:       fieldFloat(payload, "water_level", p),
	}
}

// Extract builds the classifier input vector from a reading.
func Extract(r SensorReading) Vector {
	return Vector{r.PH, r.TDS, r.WaterTemperature, r.AirHumidity, r.AirTemperature, r.LDRValue}
}

func fieldFloat(payload map[string]any, key string, _ Policy) float64 {
	v, ok := payload[key]
	if !ok {
		return 0.0
	}
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return 0.0
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
		return 0.0
	default:
		return 0.0
	}
}
