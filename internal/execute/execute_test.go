// v0
// internal/execute/execute_test.go
package execute

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"tumbuhkan/hydro/internal/plan"
	"tumbuhkan/hydro/internal/store"
)

type fakeBus struct {
	topic   string
	payload any
	accept  bool
	calls   int
}

func (f *fakeBus) Publish(topic string, v any) bool {
	f.topic, f.payload, f.calls = topic, v, f.calls+1
	return f.accept
}

type fakeSnapshots struct {
	snap store.ActuatorSnapshot
	ok   bool
}

func (f fakeSnapshots) LatestActuator() (store.ActuatorSnapshot, bool) { return f.snap, f.ok }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendFull(t *testing.T) {
	bus := &fakeBus{accept: true}
	p := New(bus, fakeSnapshots{}, "part-iot/actuator/control", discard())

	cmd := plan.Command{Fan: true}
	if !p.SendFull(cmd, "auto") {
		t.Fatal("expected accepted")
	}
	if bus.topic != "part-iot/actuator/control" {
		t.Fatalf("wrong topic %s", bus.topic)
	}

	raw, _ := json.Marshal(bus.payload)
	var got map[string]any
	_ = json.Unmarshal(raw, &got)
	if got["source"] != "auto" || got["fan"] != true || got["led"] != false {
		t.Fatalf("wire command not self-contained: %v", got)
	}
	// every command on the wire carries all six actuators plus source
	if len(got) != len(plan.ActuatorKeys)+1 {
		t.Fatalf("expected %d keys, got %v", len(plan.ActuatorKeys)+1, got)
	}
}

func TestSendDeltaOverlaysStoredState(t *testing.T) {
	stored := fakeSnapshots{
		snap: store.ActuatorSnapshot{Command: plan.Command{Fan: true}},
		ok:   true,
	}
	bus := &fakeBus{accept: true}
	p := New(bus, stored, "t", discard())

	if !p.SendDelta("led", true) {
		t.Fatal("expected accepted")
	}
	wc := bus.payload.(wireCommand)
	if !wc.Fan || !wc.LED {
		t.Fatalf("delta must preserve stored fields: %+v", wc)
	}
	if wc.PumpWater || wc.PumpNutritionAB || wc.PumpPhUp || wc.PumpPhDown {
		t.Fatalf("unrelated fields flipped: %+v", wc)
	}
	if wc.Source != "manual" {
		t.Fatalf("delta must be manual provenance, got %q", wc.Source)
	}
}

func TestSendDeltaWithoutStoredStateFallsBackAllFalse(t *testing.T) {
	bus := &fakeBus{accept: true}
	p := New(bus, fakeSnapshots{ok: false}, "t", discard())

	if !p.SendDelta("fan", true) {
		t.Fatal("expected accepted")
	}
	wc := bus.payload.(wireCommand)
	if !wc.Fan {
		t.Fatalf("delta field not applied: %+v", wc)
	}
	if wc.LED || wc.PumpWater || wc.PumpNutritionAB || wc.PumpPhUp || wc.PumpPhDown {
		t.Fatalf("fallback must be all-false: %+v", wc)
	}
}

func TestSendDeltaUnknownActuator(t *testing.T) {
	bus := &fakeBus{accept: true}
	p := New(bus, fakeSnapshots{}, "t", discard())

	if p.SendDelta("sprinkler", true) {
		t.Fatal("unknown actuator must not publish")
	}
	if bus.calls != 0 {
		t.Fatal("nothing should reach the transport")
	}
}

func TestTransportFailureIsBooleanNotFatal(t *testing.T) {
	bus := &fakeBus{accept: false}
	p := New(bus, fakeSnapshots{}, "t", discard())

	if p.SendFull(plan.Command{}, "manual") {
		t.Fatal("rejected publish must surface as false")
	}
}
