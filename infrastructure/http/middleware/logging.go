package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/infrastructure/http/response"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// AccessLog logs one line per request once the handler returns.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
				"ip":          ClientIP(r, false),
				"user_agent":  r.UserAgent(),
			}
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				fields["forwarded_for"] = xff
			}
			switch {
			case rec.status >= 500:
				log.Error(r.Context(), "HTTP request", nil, fields)
			case rec.status >= 400:
				log.Warn(r.Context(), "HTTP request", fields)
			default:
				log.Info(r.Context(), "HTTP request", fields)
			}
		})
	}
}

// Recover turns a handler panic into a 500 response.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}
					log.Error(r.Context(), "Panic recovered", fmt.Errorf("%v", rv), map[string]interface{}{
						"path":  r.URL.Path,
						"stack": string(debug.Stack()),
					})
					response.AppError(w, apperror.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
