package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request: method, path, status, response size and
// duration, tagged with the chi request ID when one is present.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		// Strip CR/LF from user-supplied values so a crafted path cannot
		// forge log lines.
		sanitize := strings.NewReplacer("\n", "", "\r", "").Replace
		reqID := chimiddleware.GetReqID(r.Context())
		if reqID == "" {
			reqID = "-"
		}
		log.Printf(
			"[%s] %s %s %d %dB %s",
			reqID,
			sanitize(r.Method),
			sanitize(r.URL.Path),
			wrapped.status,
			wrapped.bytes,
			time.Since(start),
		)
	})
}

// statusWriter captures the status code and body size written downstream.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
