package addon

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kissbridge/kissbridge/log"
	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

type recorder struct {
	http.ResponseWriter
	status int
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestID tags each request with an id, detaches it from client cancellation and logs
// its outcome.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()

		// Upstream calls run to completion after a client disconnect; the fetcher bounds them.
		ctx := context.WithValue(context.WithoutCancel(r.Context()), ctxKey{}, id)
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.WithFields(map[string]any{
			"request":  id,
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(started).Round(time.Millisecond).String(),
		}).Debug("handled")
	})
}

// cors lets browser players call every resource.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		next.ServeHTTP(w, r)
	})
}

// entry returns a log entry tagged with the request id.
func entry(r *http.Request) *logrus.Entry {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return log.WithFields(map[string]any{"request": id})
}
