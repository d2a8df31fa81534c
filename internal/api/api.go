// v0
// internal/api/api.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tumbuhkan/hydro/internal/config"
	"tumbuhkan/hydro/internal/metrics"
	"tumbuhkan/hydro/internal/pipeline"
	"tumbuhkan/hydro/internal/plan"
	"tumbuhkan/hydro/internal/store"
	"tumbuhkan/hydro/internal/taxonomy"
)

// Deps wires the presentation surface to the pipeline-owned state.
type Deps struct {
	Cfg *config.Config
	Log *slog.Logger
	St  *store.Store
	Pub commandPublisher
	Pl  *pipeline.Pipeline
	Met *metrics.Metrics
}

// commandPublisher is the slice of the execute publisher the API uses.
type commandPublisher interface {
	SendFull(cmd plan.Command, source string) bool
	SendDelta(name string, state bool) bool
}

// Server is the polling presentation boundary: it only reads the snapshot
// documents and emits control intents through the publisher; it never
// mutates pipeline-owned state directly.
type Server struct {
	d Deps

	mu            sync.Mutex
	lastAutoApply time.Time // session state for the auto-apply gate
	now           func() time.Time
}

func NewServer(d Deps) *Server {
	return &Server{d: d, now: time.Now}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/latest/prediction", s.handleLatestPrediction).Methods(http.MethodGet)
	r.HandleFunc("/latest/actuator", s.handleLatestActuator).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleClearHistory).Methods(http.MethodDelete)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/control/actuator", s.handleControlDelta).Methods(http.MethodPost)
	r.HandleFunc("/control/all", s.handleControlAll).Methods(http.MethodPost)
	r.HandleFunc("/control/auto/apply", s.handleAutoApply).Methods(http.MethodPost)
	r.Handle("/metrics", s.d.Met.Handler()).Methods(http.MethodGet)
	return handlers.RecoveryHandler()(logging(s.d.Log, r))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"status": "ok"})
}

// handleLatestPrediction renders the latest snapshot, or 204 when the
// pipeline has not produced one yet — never an error page.
func (s *Server) handleLatestPrediction(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.d.St.LatestPrediction()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleLatestActuator(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.d.St.LatestActuator()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, map[string]any{"snapshot": snap, "names": s.d.Cfg.ActuatorNames})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	rows, err := s.d.St.History(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"rows": rows, "count": len(rows)})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, _ *http.Request) {
	if err := s.d.St.ClearHistory(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"cleared": true})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.d.Pl.Stats())
}

func (s *Server) handleControlDelta(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Actuator string `json:"actuator"`
		State    bool   `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Actuator == "" {
		http.Error(w, "bad control body", http.StatusBadRequest)
		return
	}
	ok := s.d.Pub.SendDelta(req.Actuator, req.State)
	writeJSON(w, map[string]any{"sent": ok})
}

func (s *Server) handleControlAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		plan.Command
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad control body", http.StatusBadRequest)
		return
	}
	if req.Source != "auto" {
		req.Source = "manual"
	}
	ok := s.d.Pub.SendFull(req.Command, req.Source)
	writeJSON(w, map[string]any{"sent": ok})
}

// handleAutoApply re-derives the rule-engine command from the latest
// prediction and publishes it, at most once per configured interval.
func (s *Server) handleAutoApply(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.d.St.LatestPrediction()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.mu.Lock()
	now := s.now()
	if now.Sub(s.lastAutoApply) < s.d.Cfg.AutoApplyInterval {
		s.mu.Unlock()
		writeJSON(w, map[string]any{"sent": false, "reason": "interval not elapsed"})
		return
	}
	s.lastAutoApply = now
	s.mu.Unlock()

	cmd := plan.Derive(taxonomy.LabelSet{
		PH:      taxonomy.Label(snap.PHLabel),
		TDS:     taxonomy.Label(snap.TDSLabel),
		Ambient: taxonomy.Label(snap.AmbientLabel),
		Light:   taxonomy.Label(snap.LightLabel),
	})
	sent := s.d.Pub.SendFull(cmd, "auto")
	writeJSON(w, map[string]any{"sent": sent, "command": cmd})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func logging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		log.Info("request", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.String("remote", r.RemoteAddr))
	})
}
