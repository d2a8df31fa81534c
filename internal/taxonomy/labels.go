// v0
// internal/taxonomy/labels.go
package taxonomy

// Label is one categorical condition bucket for a single sensor dimension.
type Label string

const (
	TooLow      Label = "Too Low"
	Low         Label = "Low"
	Normal      Label = "Normal"
	High        Label = "High"
	TooHigh     Label = "Too High"
	Bad         Label = "Bad"
	SlightlyOff Label = "Slightly Off"
	Ideal       Label = "Ideal"
	TooDark     Label = "Too Dark"
	TooBright   Label = "Too Bright"

	// Unknown is the degraded-mode sentinel used when no model is loaded.
	Unknown Label = "Unknown"
	// Error is the sentinel used when the classifier itself failed.
	Error Label = "Error"
)

// Index tables map classifier output indices to labels, per dimension.
var (
	PHLabels      = []Label{TooLow, Low, Normal, High, TooHigh}
	TDSLabels     = []Label{TooLow, Low, Normal, High, TooHigh}
	AmbientLabels = []Label{Bad, SlightlyOff, Ideal}
	LightLabels   = []Label{TooDark, Normal, TooBright}
)

// FromIndex resolves a classifier output index against a dimension table.
// Out-of-range indices resolve to Unknown rather than panicking.
func FromIndex(table []Label, idx int) Label {
	if idx < 0 || idx >= len(table) {
		return Unknown
	}
	return table[idx]
}

// LabelSet is the full per-dimension classification of one sensor reading.
// Immutable once produced.
type LabelSet struct {
	PH      Label `json:"ph_label"`
	TDS     Label `json:"tds_label"`
	Ambient Label `json:"ambient_label"`
	Light   Label `json:"light_label"`
}

// AllUnknown is the LabelSet produced when no model is available.
func AllUnknown() LabelSet {
	return LabelSet{PH: Unknown, TDS: Unknown, Ambient: Unknown, Light: Unknown}
}

// AllError is the LabelSet produced when inference failed internally.
func AllError() LabelSet {
	return LabelSet{PH: Error, TDS: Error, Ambient: Error, Light: Error}
}
