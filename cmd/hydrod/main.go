// v0
// cmd/hydrod/main.go
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tumbuhkan/hydro/internal/api"
	"tumbuhkan/hydro/internal/classify"
	"tumbuhkan/hydro/internal/config"
	"tumbuhkan/hydro/internal/execute"
	"tumbuhkan/hydro/internal/lease"
	"tumbuhkan/hydro/internal/logging"
	"tumbuhkan/hydro/internal/metrics"
	"tumbuhkan/hydro/internal/mqttbus"
	"tumbuhkan/hydro/internal/pipeline"
	"tumbuhkan/hydro/internal/store"
)

func main() {
	lg, lf := logging.Init()
	defer func(lf *os.File) {
		if err := lf.Close(); err != nil {
			lg.Error("log file close", "error", err)
		}
	}(lf)
	lg.Info("hydrod starting")

	cfg, err := config.Load()
	if err != nil {
		lg.Error("config", "error", err)
		os.Exit(1)
	}
	lg.Info("config loaded", "broker", cfg.Broker, "sensor_topic", cfg.TopicSensor, "log_interval", cfg.LogInterval)

	st, err := store.New(cfg.DataDir, lg)
	if err != nil {
		lg.Error("store", "error", err)
		os.Exit(1)
	}

	// Only one ingestion actor may run at a time.
	ls, err := lease.Acquire(cfg.LockFile)
	if err != nil {
		lg.Error("singleton lease", "error", err)
		os.Exit(1)
	}
	defer ls.Release()

	// A missing or broken model artifact is the degraded all-Unknown mode,
	// not a startup failure.
	var model classify.Model
	if m, err := classify.LoadThresholdModel(cfg.ModelPath); err != nil {
		lg.Warn("model unavailable, running degraded", "path", cfg.ModelPath, "error", err)
	} else {
		model = m
		lg.Info("model loaded", "path", cfg.ModelPath)
	}
	adapter := classify.NewAdapter(model, lg)

	bus, err := mqttbus.Connect(mqttbus.Config{Broker: cfg.Broker, Port: cfg.Port}, lg)
	if err != nil {
		lg.Error("mqtt", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	met := metrics.New()
	pl := pipeline.New(adapter, st, bus, met, cfg.TopicOutput, cfg.LogInterval, lg)

	if err := bus.Subscribe(cfg.TopicSensor, pl.HandleSensor); err != nil {
		lg.Error("subscribe sensor", "error", err)
		os.Exit(1)
	}
	if err := bus.Subscribe(cfg.TopicActuator, pl.HandleActuatorStatus); err != nil {
		lg.Error("subscribe actuator status", "error", err)
		os.Exit(1)
	}

	pub := execute.New(bus, st, cfg.TopicActuatorControl, lg)
	srv := api.NewServer(api.Deps{Cfg: cfg, Log: lg, St: st, Pub: pub, Pl: pl, Met: met})
	go func() {
		lg.Info("http listening", "bind", cfg.HTTPBind)
		if err := http.ListenAndServe(cfg.HTTPBind, srv.Router()); err != nil {
			lg.Error("http", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	lg.Info("hydrod shutting down")
}
