// v0
// cmd/rigsim/main.go
//
// rigsim is a synthetic hydroponics rig: it publishes randomized sensor
// readings on the sensor topic and echoes control commands back on the
// status topic, so hydrod can be exercised without hardware.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"tumbuhkan/hydro/internal/config"
	"tumbuhkan/hydro/internal/feature"
	"tumbuhkan/hydro/internal/plan"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port)).
		SetClientID("rigsim-" + uuid.NewString()[:8])
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("connect: %v", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("rigsim connected to %s:%d", cfg.Broker, cfg.Port)

	var mu sync.Mutex
	var state plan.Command

	// Echo every control command back as the reported hardware state.
	token := client.Subscribe(cfg.TopicActuatorControl, 0, func(_ mqtt.Client, msg mqtt.Message) {
		mu.Lock()
		defer mu.Unlock()
		var cmd plan.Command
		if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
			log.Printf("bad control payload: %v", err)
			return
		}
		state = cmd
		payload, _ := json.Marshal(state)
		client.Publish(cfg.TopicActuator, 0, false, payload)
		log.Printf("echoed actuator state: %s", payload)
	})
	if token.Wait() && token.Error() != nil {
		log.Fatalf("subscribe control: %v", token.Error())
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			log.Println("rigsim stopping")
			return
		case <-ticker.C:
			r := randomReading()
			payload, _ := json.Marshal(r)
			client.Publish(cfg.TopicSensor, 0, false, payload)
			log.Printf("published reading: ph=%.2f tds=%.0f", r.PH, r.TDS)
		}
	}
}

// randomReading draws values spanning all label bands, so the daemon sees
// Optimal, Warning and Critical conditions over time.
func randomReading() feature.SensorReading {
	return feature.SensorReading{
		PH:               4.0 + rand.Float64()*4.5,
		TDS:              300 + rand.Float64()*2200,
		WaterFlow:        1.0 + rand.Float64()*3.0,
		AirHumidity:      33 + rand.Float64()*52,
		AirTemperature:   14 + rand.Float64()*20,
		LDRValue:         rand.Float64() * 3500,
		WaterTemperature: 20 + rand.Float64()*12,
		WaterLevel:       5 + rand.Float64()*25,
	}
}
