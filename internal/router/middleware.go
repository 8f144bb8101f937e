package router

import (
	"net/http"
	"time"

	"github.com/yaklabco/folio/internal/logging"
)

// statusWriter records the status written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	//nolint:wrapcheck // Pass-through writer.
	return w.ResponseWriter.Write(b)
}

// Logging logs one line per request with method, path, status and duration,
// and puts the logger on the request context.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		logger := logging.FromContext(req.Context()).With(
			logging.FieldMethod, req.Method,
			logging.FieldPath, req.URL.Path,
		)
		ctx := logging.WithLogger(req.Context(), logger)

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, req.WithContext(ctx))

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		log := logger.Info
		if status >= http.StatusInternalServerError {
			log = logger.Warn
		}
		log("request",
			logging.FieldStatus, status,
			logging.FieldDuration, time.Since(start).Round(time.Microsecond),
		)
	})
}
