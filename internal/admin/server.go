package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"gridwatch-sim/internal/aiproxy"
	"gridwatch-sim/internal/grid"
	"gridwatch-sim/internal/logging"
	"gridwatch-sim/internal/metrics"
	"gridwatch-sim/internal/sim"
)

const shutdownTimeout = 5 * time.Second

// Server is the operator dashboard: an HTML page polling JSON endpoints,
// the chaos switch, Prometheus metrics and the AI proxy routes.
type Server struct {
	Sim     *sim.Simulator
	proxy   *aiproxy.Handler // nil if disabled
	metrics *metrics.Metrics // nil if disabled
	tpl     *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(sim *sim.Simulator, proxy *aiproxy.Handler, m *metrics.Metrics) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sim: sim, proxy: proxy, metrics: m, tpl: tpl}
}

// Handler returns the routed and instrumented HTTP handler.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /readings", s.handleReadings)
	mux.HandleFunc("GET /readings/{metric}", s.handleReading)
	mux.HandleFunc("GET /alerts", s.handleAlerts)
	mux.HandleFunc("POST /toggle-chaos", s.handleToggleChaos)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	var obs httpObserver
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
		obs = s.metrics
	}
	if s.proxy != nil {
		s.proxy.RegisterRoutes(mux)
	}
	return RequestID(Logging(ctx, obs)(mux))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("admin server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("admin server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type metricView struct {
	Name    string
	Label   string
	Unit    string
	Min     float64
	Max     float64
	Reading grid.Reading
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	labels := s.Sim.Labels()
	names := s.Sim.Metrics()
	views := make([]metricView, 0, len(names))
	for _, name := range names {
		series, ok := s.Sim.Series(name)
		if !ok {
			continue
		}
		v := metricView{Name: name, Label: labels[name], Unit: series.Unit, Min: series.Min, Max: series.Max}
		v.Reading, _ = s.Sim.Current(name)
		views = append(views, v)
	}
	data := struct {
		GridID  string
		Chaos   bool
		Phase   string
		Metrics []metricView
		Alerts  int
		AI      bool
	}{
		GridID:  s.Sim.GridID(),
		Chaos:   s.Sim.Chaos(),
		Phase:   s.Sim.Phase(),
		Metrics: views,
		Alerts:  len(s.Sim.Alerts()),
		AI:      s.proxy != nil,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("render index", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Snapshot())
}

func (s *Server) handleReading(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("metric")
	reading, ok := s.Sim.Current(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown metric " + name})
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Alerts())
}

func (s *Server) handleToggleChaos(w http.ResponseWriter, r *http.Request) {
	state := s.Sim.ToggleChaos()
	logging.FromContext(r.Context()).Info("chaos mode toggled", "chaos", state)
	writeJSON(w, http.StatusOK, map[string]any{"chaos": state})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	counts := s.Sim.StatusCounts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"grid_id":  s.Sim.GridID(),
		"phase":    s.Sim.Phase(),
		"chaos":    s.Sim.Chaos(),
		"optimal":  counts[grid.StatusOptimal],
		"warning":  counts[grid.StatusWarning],
		"critical": counts[grid.StatusCritical],
		"unknown":  counts[grid.StatusUnknown],
	})
}
