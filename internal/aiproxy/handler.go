// HTTP handlers forwarding sanitized grid data to a chat-completion API
package aiproxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gridwatch-sim/internal/logging"
)

const (
	AnalyzeAnomalyPath  = "/api/analyze-anomaly"
	RecommendationsPath = "/api/grid-recommendations"

	maxBodySize = 1 << 20
)

// Observer records proxy outcomes, typically *metrics.Metrics.
type Observer interface {
	ObserveProxy(endpoint string, status int, d time.Duration)
}

// Handler serves the two AI proxy endpoints.
type Handler struct {
	client  Completer
	metrics Observer // nil if disabled
}

// NewHandler creates a Handler. metrics may be nil.
func NewHandler(client Completer, metrics Observer) *Handler {
	return &Handler{client: client, metrics: metrics}
}

// RegisterRoutes mounts the proxy endpoints on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(AnalyzeAnomalyPath, h.AnalyzeAnomaly)
	mux.HandleFunc(RecommendationsPath, h.Recommendations)
}

// endpoint describes one proxy route: the request envelope key, the
// accepted fields, and the response key.
type endpoint struct {
	path        string
	requestKey  string
	responseKey string
	schema      schema
	system      string
	prompt      func(map[string]any) string
}

var (
	anomalyEndpoint = endpoint{
		path:        AnalyzeAnomalyPath,
		requestKey:  "anomalyData",
		responseKey: "analysis",
		schema:      anomalyDataSchema,
		system:      analystSystemPrompt,
		prompt:      anomalyPrompt,
	}
	recommendationsEndpoint = endpoint{
		path:        RecommendationsPath,
		requestKey:  "gridData",
		responseKey: "recommendations",
		schema:      gridDataSchema,
		system:      advisorSystemPrompt,
		prompt:      recommendationsPrompt,
	}
)

// AnalyzeAnomaly handles POST {anomalyData} and answers {analysis}.
func (h *Handler) AnalyzeAnomaly(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, anomalyEndpoint)
}

// Recommendations handles POST {gridData} and answers {recommendations}.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, recommendationsEndpoint)
}

func setCORS(w http.ResponseWriter) {
	hdr := w.Header()
	hdr.Set("Access-Control-Allow-Origin", "*")
	hdr.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	hdr.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, ep endpoint) {
	start := time.Now()
	log := logging.FromContext(r.Context())
	tw := &responseTracker{ResponseWriter: w}
	w = tw
	setCORS(w)

	status := http.StatusOK
	defer func() {
		if rec := recover(); rec != nil {
			err := WrapError(fmt.Errorf("panic: %v", rec), InternalError, "internal server error")
			log.Error("proxy handler panicked", "endpoint", ep.path, "err", err, "response_started", tw.wrote)
			if tw.wrote {
				status = tw.status
			} else {
				status = writeError(w, err)
			}
		}
		if h.metrics != nil {
			h.metrics.ObserveProxy(ep.path, status, time.Since(start))
		}
	}()

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		status = http.StatusMethodNotAllowed
		writeJSON(w, status, map[string]string{"error": "method not allowed"})
		return
	}

	fields, err := decodeEnvelope(r.Body, ep.requestKey)
	if err != nil {
		log.Warn("rejected proxy request", "endpoint", ep.path, "err", err)
		status = writeError(w, err)
		return
	}
	clean := ep.schema.sanitize(fields)

	answer, err := h.client.Complete(r.Context(), ep.system, ep.prompt(clean))
	if err != nil {
		log.Error("proxy upstream call failed", "endpoint", ep.path, "kind", KindOf(err), "err", err)
		status = writeError(w, err)
		return
	}
	log.Info("proxy request served", "endpoint", ep.path, "duration", time.Since(start))
	writeJSON(w, status, map[string]string{ep.responseKey: answer})
}

// decodeEnvelope reads {key: {...}} and returns the inner object.
func decodeEnvelope(body io.Reader, key string) (map[string]any, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxBodySize+1))
	if err != nil {
		return nil, WrapError(err, InvalidInput, "failed to read request body")
	}
	if len(data) > maxBodySize {
		return nil, NewError(InvalidInput, "request body too large")
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, WrapError(err, InvalidInput, "invalid JSON in request body")
	}
	raw, ok := envelope[key]
	if !ok {
		return nil, NewError(InvalidInput, fmt.Sprintf("%s is required", key))
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, NewError(InvalidInput, fmt.Sprintf("%s must be an object", key))
	}
	return fields, nil
}

// writeError renders err as {error} and returns the status written.
func writeError(w http.ResponseWriter, err error) int {
	kind := KindOf(err)
	msg := "internal server error"
	var pe *Error
	if errors.As(err, &pe) {
		msg = pe.Message
	}
	status := kind.Status()
	writeJSON(w, status, map[string]string{"error": msg})
	return status
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// responseTracker remembers whether the header went out so a recovered panic
// does not write a second status.
type responseTracker struct {
	http.ResponseWriter
	wrote  bool
	status int
}

func (t *responseTracker) WriteHeader(code int) {
	if t.wrote {
		return
	}
	t.wrote = true
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *responseTracker) Write(b []byte) (int, error) {
	if !t.wrote {
		t.WriteHeader(http.StatusOK)
	}
	return t.ResponseWriter.Write(b)
}
