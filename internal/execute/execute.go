// v0
// internal/execute/execute.go
package execute

import (
	"log/slog"

	"tumbuhkan/hydro/internal/plan"
	"tumbuhkan/hydro/internal/store"
)

// bus is the slice of the transport the publisher needs.
type bus interface {
	Publish(topic string, v any) bool
}

// snapshots is the slice of the store the delta overlay reads from.
type snapshots interface {
	LatestActuator() (store.ActuatorSnapshot, bool)
}

// wireCommand is the full self-contained control message: all six actuator
// fields plus provenance.
type wireCommand struct {
	plan.Command
	Source string `json:"source"`
}

// Publisher sends actuator commands on the control channel. Fire and
// forget: success means accepted by the local transport, and there is no
// retry or backoff here — the caller surfaces failure and may try again on
// its next action or tick.
type Publisher struct {
	bus   bus
	store snapshots
	topic string
	lg    *slog.Logger
}

func New(b bus, s snapshots, topic string, lg *slog.Logger) *Publisher {
	return &Publisher{bus: b, store: s, topic: topic, lg: lg.With(slog.String("component", "publisher"))}
}

// SendFull publishes a fully specified command. Source is "manual" or "auto".
func (p *Publisher) SendFull(cmd plan.Command, source string) bool {
	ok := p.bus.Publish(p.topic, wireCommand{Command: cmd, Source: source})
	if !ok {
		p.lg.Warn("command not accepted by transport", "source", source)
	}
	return ok
}

// SendDelta changes one actuator. The last reported full state (all-false
// when none exists yet) is overlaid with the single change so the wire
// command is self-contained and idempotent.
func (p *Publisher) SendDelta(name string, state bool) bool {
	var cmd plan.Command
	if snap, ok := p.store.LatestActuator(); ok {
		cmd = snap.Command
	}
	if err := cmd.Set(name, state); err != nil {
		p.lg.Warn("delta rejected", "actuator", name, "error", err)
		return false
	}
	return p.SendFull(cmd, "manual")
}
