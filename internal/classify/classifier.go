// v0
// internal/classify/classifier.go
package classify

import (
	"log/slog"

	"tumbuhkan/hydro/internal/feature"
	"tumbuhkan/hydro/internal/taxonomy"
)

// Model is the opaque multi-output classifier: one feature vector in, four
// category indices out, in fixed order (ph, tds, ambient, light).
type Model interface {
	Predict(v feature.Vector) ([4]int, error)
}

// Adapter wraps a Model and guarantees the pipeline always gets a usable
// LabelSet. No model loaded means all-Unknown; any internal failure means
// all-Error. It never panics outward.
type Adapter struct {
	model Model
	lg    *slog.Logger
}

// NewAdapter wraps the given model. A nil model is valid and selects the
// degraded all-Unknown mode.
func NewAdapter(m Model, lg *slog.Logger) *Adapter {
	return &Adapter{model: m, lg: lg.With(slog.String("component", "classifier"))}
}

// Loaded reports whether a model is available.
func (a *Adapter) Loaded() bool { return a.model != nil }

// Labels runs inference and maps the four output indices to labels.
func (a *Adapter) Labels(v feature.Vector) (ls taxonomy.LabelSet) {
	if a.model == nil {
		return taxonomy.AllUnknown()
	}

	defer func() {
		if r := recover(); r != nil {
			a.lg.Error("model panic during predict", "panic", r)
			ls = taxonomy.AllError()
		}
	}()

	idx, err := a.model.Predict(v)
	if err != nil {
		a.lg.Error("predict failed", "error", err)
		return taxonomy.AllError()
	}

	return taxonomy.LabelSet{
		PH:      taxonomy.FromIndex(taxonomy.PHLabels, idx[0]),
		TDS:     taxonomy.FromIndex(taxonomy.TDSLabels, idx[1]),
		Ambient: taxonomy.FromIndex(taxonomy.AmbientLabels, idx[2]),
		Light:   taxonomy.FromIndex(taxonomy.LightLabels, idx[3]),
	}
}
