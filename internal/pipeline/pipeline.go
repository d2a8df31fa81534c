// v0
// internal/pipeline/pipeline.go
package pipeline

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tumbuhkan/hydro/internal/classify"
	"tumbuhkan/hydro/internal/feature"
	"tumbuhkan/hydro/internal/metrics"
	"tumbuhkan/hydro/internal/plan"
	"tumbuhkan/hydro/internal/status"
	"tumbuhkan/hydro/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

// bus is the slice of the transport the pipeline publishes on.
type bus interface {
	Publish(topic string, v any) bool
}

// advisory is the derived message republished on the output channel.
type advisory struct {
	Status  string `json:"status"`
	PH      string `json:"ph"`
	TDS     string `json:"tds"`
	Ambient string `json:"ambient"`
	Light   string `json:"light"`
	Action  string `json:"action"`
}

// Stats holds counters for the /stats endpoint.
type Stats struct {
	SensorEvents   int64  `json:"sensorEvents"`
	ActuatorEvents int64  `json:"actuatorEvents"`
	HistoryRows    int64  `json:"historyRows"`
	DroppedEvents  int64  `json:"droppedEvents"`
	ModelLoaded    bool   `json:"modelLoaded"`
	LastEventAt    string `json:"lastEventAt,omitempty"`
}

// Pipeline is the ingestion actor: it owns the rate-gate clock, all writes
// to both snapshot documents, and history-row creation for its entire
// lifetime. Handlers never panic outward and never terminate the
// subscription; a bad message is logged, counted, and dropped.
type Pipeline struct {
	adapter     *classify.Adapter
	st          *store.Store
	bus         bus
	met         *metrics.Metrics
	lg          *slog.Logger
	outputTopic string
	logInterval time.Duration

	mu         sync.Mutex // one ingest actor across both topics
	lastLogged time.Time  // only ever advanced
	stats      Stats

	now func() time.Time
}

func New(adapter *classify.Adapter, st *store.Store, b bus, met *metrics.Metrics,
	outputTopic string, logInterval time.Duration, lg *slog.Logger) *Pipeline {
	return &Pipeline{
		adapter:     adapter,
		st:          st,
		bus:         b,
		met:         met,
		lg:          lg.With(slog.String("component", "pipeline")),
		outputTopic: outputTopic,
		logInterval: logInterval,
		now:         time.Now,
	}
}

// HandleSensor processes one telemetry sample: extract, classify, evaluate,
// snapshot, publish advisory, rate-gated history append.
func (p *Pipeline) HandleSensor(_ string, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.recoverHandler("sensor")

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		p.lg.Warn("bad sensor json, message dropped", "error", err)
		p.met.HandlerErrors.Inc()
		p.stats.DroppedEvents++
		return
	}

	reading := feature.ReadingFrom(raw, feature.DefaultZero)
	labels := p.adapter.Labels(feature.Extract(reading))
	res := status.Evaluate(labels)
	now := p.now()

	snap := store.PredictionSnapshot{
		Timestamp:        now.Format(timeLayout),
		PH:               reading.PH,
		TDS:              reading.TDS,
		WaterFlow:        reading.WaterFlow,
		AirHumidity:      reading.AirHumidity,
		AirTemperature:   reading.AirTemperature,
		LDRValue:         reading.LDRValue,
		WaterTemperature: reading.WaterTemperature,
		WaterLevel:       reading.WaterLevel,
		PHLabel:          string(labels.PH),
		TDSLabel:         string(labels.TDS),
		AmbientLabel:     string(labels.Ambient),
		LightLabel:       string(labels.Light),
		Status:           string(res.Status),
		Output:           string(res.Advisory),
		Icon:             res.Icon,
		Color:            res.Color,
	}

	// Full replace; a write failure loses one update, not the pipeline.
	if err := p.st.PutPrediction(snap); err != nil {
		p.lg.Warn("prediction snapshot write failed", "error", err)
	}

	p.bus.Publish(p.outputTopic, advisory{
		Status:  string(res.Status),
		PH:      string(labels.PH),
		TDS:     string(labels.TDS),
		Ambient: string(labels.Ambient),
		Light:   string(labels.Light),
		Action:  string(res.Advisory),
	})

	if now.Sub(p.lastLogged) >= p.logInterval {
		if err := p.st.AppendHistory(snap); err != nil {
			p.lg.Warn("history append failed", "error", err)
		} else {
			p.met.HistoryRows.Inc()
			p.stats.HistoryRows++
		}
		p.lastLogged = now
	}

	p.met.SensorEvents.Inc()
	p.stats.SensorEvents++
	p.stats.LastEventAt = snap.Timestamp
	p.lg.Info("sensor event",
		"ph", reading.PH, "tds", reading.TDS,
		"status", res.Status, "advisory", res.Advisory)
}

// HandleActuatorStatus processes a device echo of actual hardware state.
// No inference: coerce the boolean fields, merge over the last stored
// snapshot (missing keys keep their stored value), stamp, full replace.
func (p *Pipeline) HandleActuatorStatus(_ string, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.recoverHandler("actuator")

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		p.lg.Warn("bad actuator json, message dropped", "error", err)
		p.met.HandlerErrors.Inc()
		p.stats.DroppedEvents++
		return
	}

	var cmd plan.Command
	if snap, ok := p.st.LatestActuator(); ok {
		cmd = snap.Command
	}
	for _, key := range plan.ActuatorKeys {
		v, present := raw[key]
		if !present {
			continue
		}
		state, ok := coerceBool(v)
		if !ok {
			// Reject just this field and keep the stored value.
			p.lg.Warn("uncoercible actuator field", "field", key, "value", v)
			continue
		}
		_ = cmd.Set(key, state)
	}

	snap := store.ActuatorSnapshot{Command: cmd, Timestamp: p.now().Format(timeLayout)}
	if err := p.st.PutActuator(snap); err != nil {
		p.lg.Warn("actuator snapshot write failed", "error", err)
	}

	p.met.ActuatorEvents.Inc()
	p.stats.ActuatorEvents++
	p.lg.Info("actuator status updated")
}

// Stats returns a copy of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.ModelLoaded = p.adapter.Loaded()
	return s
}

func (p *Pipeline) recoverHandler(kind string) {
	if r := recover(); r != nil {
		p.lg.Error("handler panic, message dropped", "kind", kind, "panic", r)
		p.met.HandlerErrors.Inc()
		p.stats.DroppedEvents++
	}
}

// coerceBool applies the actuator-status coercion policy: booleans pass
// through, numbers coerce (non-zero is true), and the usual string spellings
// coerce case-insensitively. Anything else rejects the field.
func coerceBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case float64:
		return x != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "on":
			return true, true
		case "false", "0", "off":
			return false, true
		}
	}
	return false, false
}
