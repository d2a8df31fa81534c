// v0
// internal/mqttbus/bus.go
package mqttbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Config holds broker connection settings. All channels run at QoS 0.
type Config struct {
	Broker        string
	Port          int
	ClientID      string
	MaxRetries    int
	RetryInterval time.Duration
}

// Bus wraps the paho client behind the two operations the pipeline needs:
// subscribe a handler and fire-and-forget publish.
type Bus struct {
	client mqtt.Client
	lg     *slog.Logger
}

// Handler receives one inbound message. Handlers for a subscription run one
// at a time, in arrival order, on paho's router goroutine.
type Handler func(topic string, payload []byte)

// Connect dials the broker, retrying up to cfg.MaxRetries times.
func Connect(cfg Config, lg *slog.Logger) (*Bus, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = "hydro-" + uuid.NewString()[:8]
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 2 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetOrderMatters(true)

	lg = lg.With(slog.String("component", "mqtt"))

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		client := mqtt.NewClient(opts)
		token := client.Connect()
		if token.WaitTimeout(cfg.RetryInterval) && token.Error() == nil {
			lg.Info("connected to broker", "broker", cfg.Broker, "port", cfg.Port, "client_id", cfg.ClientID)
			return &Bus{client: client, lg: lg}, nil
		}
		lastErr = token.Error()
		if lastErr == nil {
			lastErr = errors.New("connect timeout")
		}
		lg.Warn("broker connect failed", "attempt", attempt, "max", cfg.MaxRetries, "error", lastErr)
		time.Sleep(cfg.RetryInterval)
	}
	return nil, fmt.Errorf("connect to %s:%d after %d attempts: %w", cfg.Broker, cfg.Port, cfg.MaxRetries, lastErr)
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic string, h Handler) error {
	token := b.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		h(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	b.lg.Info("subscribed", "topic", topic)
	return nil
}

// Publish marshals v and sends it at QoS 0. Success means accepted by the
// local transport for delivery, nothing more; the token is drained off the
// critical path purely for logging.
func (b *Bus) Publish(topic string, v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		b.lg.Error("marshal publish payload", "topic", topic, "error", err)
		return false
	}
	if !b.client.IsConnected() {
		b.lg.Warn("publish while disconnected", "topic", topic)
		return false
	}
	token := b.client.Publish(topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			b.lg.Warn("publish failed", "topic", topic, "error", token.Error())
		}
	}()
	return true
}

// Close disconnects, allowing a short drain for in-flight messages.
func (b *Bus) Close() {
	b.client.Disconnect(250)
}
