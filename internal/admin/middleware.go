package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"gridwatch-sim/internal/logging"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID adds a unique request ID to each request via X-Request-Id header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// httpObserver counts finished requests, typically *metrics.Metrics.
type httpObserver interface {
	ObserveHTTP(method string, status int)
}

// Logging stores a request-scoped logger in the context and logs every
// finished request with its status and duration.
func Logging(ctx context.Context, obs httpObserver) func(http.Handler) http.Handler {
	base := logging.FromContext(ctx)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			log := base
			if id := GetRequestID(r.Context()); id != "" {
				log = log.With("request_id", id)
			}

			next.ServeHTTP(rec, r.WithContext(logging.NewContext(r.Context(), log)))

			if obs != nil {
				obs.ObserveHTTP(r.Method, rec.statusCode)
			}
			log.Debug("http request", "method", r.Method, "path", r.URL.Path,
				"status", rec.statusCode, "bytes", rec.bytes, "duration", time.Since(start))
		})
	}
}
