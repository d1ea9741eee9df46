package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// userIDHeader carries the authenticated caller's id, set by the upstream
// request layer after authentication.
const userIDHeader = "X-User-ID"

func callerID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}

// RequestLogger logs basic request details and latency.
func RequestLogger(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
