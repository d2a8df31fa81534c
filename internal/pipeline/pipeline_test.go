// v0
// internal/pipeline/pipeline_test.go
package pipeline

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"tumbuhkan/hydro/internal/classify"
	"tumbuhkan/hydro/internal/feature"
	"tumbuhkan/hydro/internal/metrics"
	"tumbuhkan/hydro/internal/store"
)

type fakeBus struct {
	published []struct {
		topic   string
		payload any
	}
}

func (f *fakeBus) Publish(topic string, v any) bool {
	f.published = append(f.published, struct {
		topic   string
		payload any
	}{topic, v})
	return true
}

type fixedModel struct{ out [4]int }

func (m fixedModel) Predict(feature.Vector) ([4]int, error) { return m.out, nil }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, model classify.Model) (*Pipeline, *store.Store, *fakeBus) {
	t.Helper()
	st, err := store.New(t.TempDir(), discard())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	bus := &fakeBus{}
	p := New(classify.NewAdapter(model, discard()), st, bus, metrics.New(), "part-iot/output", 5*time.Second, discard())
	return p, st, bus
}

func TestSensorEventNoModel(t *testing.T) {
	p, st, bus := newTestPipeline(t, nil)

	p.HandleSensor("part-iot/sensor/data", []byte(`{"ph": 6.5, "tds": 1200}`))

	snap, ok := st.LatestPrediction()
	if !ok {
		t.Fatal("snapshot missing after sensor event")
	}
	if snap.PHLabel != "Unknown" || snap.LightLabel != "Unknown" {
		t.Fatalf("expected Unknown labels without a model: %+v", snap)
	}
	if snap.Status != "Warning" || snap.Output != "NEEDS_ATTENTION" {
		t.Fatalf("degraded mode must be Warning/NEEDS_ATTENTION: %s/%s", snap.Status, snap.Output)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one advisory publish, got %d", len(bus.published))
	}
	adv := bus.published[0].payload.(advisory)
	if adv.Status != "Warning" || adv.Action != "NEEDS_ATTENTION" || adv.PH != "Unknown" {
		t.Fatalf("advisory wrong: %+v", adv)
	}
}

func TestSensorEventWithModel(t *testing.T) {
	p, st, bus := newTestPipeline(t, fixedModel{out: [4]int{2, 2, 2, 1}})

	p.HandleSensor("", []byte(`{"ph": 6.5, "tds": 1200, "air_temperature": 22, "air_humidity": 55, "ldr_value": 1500, "water_temperature": 24}`))

	snap, _ := st.LatestPrediction()
	if snap.Status != "Optimal" || snap.Output != "ALL_NORMAL" {
		t.Fatalf("expected Optimal: %+v", snap)
	}
	if snap.PH != 6.5 || snap.AirTemperature != 22 {
		t.Fatalf("raw reading lost: %+v", snap)
	}
	if bus.published[0].topic != "part-iot/output" {
		t.Fatalf("advisory topic wrong: %s", bus.published[0].topic)
	}
}

func TestBadSensorJSONDropsMessage(t *testing.T) {
	p, st, bus := newTestPipeline(t, nil)

	p.HandleSensor("", []byte(`{not json`))

	if _, ok := st.LatestPrediction(); ok {
		t.Fatal("bad message must not produce a snapshot")
	}
	if len(bus.published) != 0 {
		t.Fatal("bad message must not publish")
	}
	if s := p.Stats(); s.DroppedEvents != 1 || s.SensorEvents != 0 {
		t.Fatalf("stats wrong after drop: %+v", s)
	}
}

func TestRateGatedLogging(t *testing.T) {
	p, st, _ := newTestPipeline(t, nil)

	// Events every second for 11 seconds with a 5s gate: rows only at
	// t=0, t=5 and t=10.
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := base
	p.now = func() time.Time { return clock }

	for i := 0; i <= 10; i++ {
		clock = base.Add(time.Duration(i) * time.Second)
		p.HandleSensor("", []byte(`{"ph": 6.5}`))
	}

	rows, err := st.History(0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rate-gated rows, got %d", len(rows))
	}
	if rows[0].Timestamp != "2026-08-29 10:00:00" || rows[2].Timestamp != "2026-08-29 10:00:10" {
		t.Fatalf("gate fired at wrong instants: %+v", rows)
	}
}

func TestActuatorStatusMergesOverStored(t *testing.T) {
	p, st, _ := newTestPipeline(t, nil)

	p.HandleActuatorStatus("", []byte(`{"fan": true, "led": false}`))
	// Partial echo: missing keys must read back as their last stored value.
	p.HandleActuatorStatus("", []byte(`{"led": true}`))

	snap, ok := st.LatestActuator()
	if !ok {
		t.Fatal("actuator snapshot missing")
	}
	if !snap.Fan || !snap.LED {
		t.Fatalf("merge lost fields: %+v", snap)
	}
	if snap.PumpNutritionAB || snap.PumpWater || snap.PumpPhUp || snap.PumpPhDown {
		t.Fatalf("untouched fields must stay false: %+v", snap)
	}
}

func TestActuatorStatusCoercion(t *testing.T) {
	p, st, _ := newTestPipeline(t, nil)

	p.HandleActuatorStatus("", []byte(`{"fan": 1, "led": "on", "pump_water": "off"}`))
	snap, _ := st.LatestActuator()
	if !snap.Fan || !snap.LED || snap.PumpWater {
		t.Fatalf("coercion wrong: %+v", snap)
	}

	t.Run("uncoercible field keeps stored value and never crashes", func(t *testing.T) {
		p.HandleActuatorStatus("", []byte(`{"led": "yes"}`))
		snap, _ := st.LatestActuator()
		if !snap.LED {
			t.Fatalf("rejected field must keep stored value: %+v", snap)
		}
		if s := p.Stats(); s.ActuatorEvents != 2 {
			t.Fatalf("loop must stay alive: %+v", s)
		}
	})
}

func TestAdvisoryWireFormat(t *testing.T) {
	p, _, bus := newTestPipeline(t, fixedModel{out: [4]int{4, 2, 2, 1}})

	p.HandleSensor("", []byte(`{"ph": 8.1}`))

	raw, err := json.Marshal(bus.published[0].payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"status", "ph", "tds", "ambient", "light", "action"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("advisory missing %q: %v", key, got)
		}
	}
	if got["status"] != "Critical" || got["action"] != "ALERT_CRITICAL" {
		t.Fatalf("ph Too High must be Critical: %v", got)
	}
}
