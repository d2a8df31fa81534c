// v0
// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries runtime settings (mostly via env).
type Config struct {
	Broker               string
	Port                 int
	TopicSensor          string
	TopicOutput          string
	TopicActuator        string
	TopicActuatorControl string

	DataDir   string
	ModelPath string
	LockFile  string
	HTTPBind  string

	LogInterval       time.Duration
	AutoApplyInterval time.Duration

	TablesPath    string
	ActuatorNames map[string]string // wire name -> display name
	LabelColors   map[string]string // label -> display color
}

// Load reads .env (if present), env vars with defaults, then the optional
// display-tables file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Broker:               envStr("MQTT_BROKER", "broker.hivemq.com"),
		Port:                 envInt("MQTT_PORT", 1883),
		TopicSensor:          envStr("MQTT_TOPIC_SENSOR", "part-iot/sensor/data"),
		TopicOutput:          envStr("MQTT_TOPIC_OUTPUT", "part-iot/output"),
		TopicActuator:        envStr("MQTT_TOPIC_ACTUATOR", "part-iot/actuator/status"),
		TopicActuatorControl: envStr("MQTT_TOPIC_ACTUATOR_CONTROL", "part-iot/actuator/control"),
		DataDir:              envStr("DATA_DIR", "./data"),
		ModelPath:            envStr("MODEL_PATH", "./model/hydro_thresholds.json"),
		LockFile:             envStr("LOCK_FILE", "./data/hydrod.pid"),
		HTTPBind:             envStr("HTTP_BIND", ":8090"),
		LogInterval:          time.Duration(envInt("LOG_INTERVAL_SECONDS", 5)) * time.Second,
		AutoApplyInterval:    time.Duration(envInt("AUTO_APPLY_INTERVAL_SECONDS", 5)) * time.Second,
		TablesPath:           envStr("TABLES_PATH", ""),
		ActuatorNames:        defaultActuatorNames(),
		LabelColors:          defaultLabelColors(),
	}

	if cfg.TablesPath != "" {
		if err := cfg.loadTables(cfg.TablesPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadTables overlays display names and colors from a YAML file. Only keys
// present in the file are replaced.
func (c *Config) loadTables(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tables file %s: %w", path, err)
	}
	var t struct {
		ActuatorNames map[string]string `yaml:"actuator_names"`
		LabelColors   map[string]string `yaml:"label_colors"`
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return fmt.Errorf("parse tables file %s: %w", path, err)
	}
	for k, v := range t.ActuatorNames {
		c.ActuatorNames[k] = v
	}
	for k, v := range t.LabelColors {
		c.LabelColors[k] = v
	}
	return nil
}

func defaultActuatorNames() map[string]string {
	return map[string]string{
		"pump_nutrition_AB": "Nutrition Pump A+B",
		"pump_water":        "Water Pump",
		"pump_Ph_Up":        "pH Up Pump",
		"pump_Ph_Down":      "pH Down Pump",
		"fan":               "Cooling Fan",
		"led":               "Grow Light LED",
	}
}

func defaultLabelColors() map[string]string {
	return map[string]string{
		"Normal":       "green",
		"Low":          "orange",
		"High":         "orange",
		"Too Low":      "red",
		"Too High":     "red",
		"Ideal":        "green",
		"Slightly Off": "orange",
		"Bad":          "red",
		"Too Dark":     "orange",
		"Too Bright":   "orange",
	}
}

func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
