package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/unifind/unifind/infrastructure/service/logger"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID ensures every request and response carries a correlation id
// and stores it in the request context for the logger.
func CorrelationID(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = CorrelationIDHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := r.Header.Get(header)
			if cid == "" {
				cid = uuid.NewString()
			}
			w.Header().Set(header, cid)
			next.ServeHTTP(w, r.WithContext(logger.WithCorrelationID(r.Context(), cid)))
		})
	}
}
