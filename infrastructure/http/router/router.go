package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/infrastructure/http/handler"
	"github.com/unifind/unifind/infrastructure/http/middleware"
	"github.com/unifind/unifind/infrastructure/http/response"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type Dependencies struct {
	Auth         *handler.AuthHandler
	Universities *handler.UniversityHandler
	Health       *handler.HealthHandler
	AuthGuard    *middleware.AuthMiddleware
	RateLimit    *middleware.RateLimitMiddleware
	Logger       logger.Logger

	CorrelationIDHeader  string
	EnableRequestLog     bool
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

// New builds the route table and wraps it in the middleware chain:
// correlation id, access log, recovery, then CORS.
func New(d Dependencies) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.AppError(w, apperror.ErrNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/health", d.Health.Health).Methods(http.MethodGet)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", d.RateLimit.Limit("signup", d.Auth.Signup)).Methods(http.MethodPost)
	auth.HandleFunc("/login", d.RateLimit.Limit("login", d.Auth.Login)).Methods(http.MethodPost)
	auth.HandleFunc("/refresh_token", d.AuthGuard.RequireRefresh(d.Auth.Refresh)).Methods(http.MethodGet)
	auth.HandleFunc("/logout", d.AuthGuard.RequireAccess(d.Auth.Logout)).Methods(http.MethodPost)
	auth.HandleFunc("/me", d.AuthGuard.RequireUser(d.Auth.Me)).Methods(http.MethodGet)

	u := r.PathPrefix("/universities").Subrouter()
	// Static paths first so they are not captured by {id}.
	u.HandleFunc("/statistics/summary", d.AuthGuard.RequireAdmin(d.Universities.Statistics)).Methods(http.MethodGet)
	u.HandleFunc("/enums/types", d.Universities.Types).Methods(http.MethodGet)
	u.HandleFunc("/enums/rankings", d.Universities.Rankings).Methods(http.MethodGet)
	u.HandleFunc("/enums/languages", d.Universities.Languages).Methods(http.MethodGet)

	u.HandleFunc("", d.AuthGuard.OptionalUser(d.Universities.List)).Methods(http.MethodGet)
	u.HandleFunc("/", d.AuthGuard.OptionalUser(d.Universities.List)).Methods(http.MethodGet)
	u.HandleFunc("", d.AuthGuard.RequireAdmin(d.Universities.Create)).Methods(http.MethodPost)
	u.HandleFunc("/", d.AuthGuard.RequireAdmin(d.Universities.Create)).Methods(http.MethodPost)
	u.HandleFunc("/{id}", d.AuthGuard.OptionalUser(d.Universities.Get)).Methods(http.MethodGet)
	u.HandleFunc("/{id}", d.AuthGuard.RequireAdmin(d.Universities.Update)).Methods(http.MethodPut)
	u.HandleFunc("/{id}", d.AuthGuard.RequireAdmin(d.Universities.Delete)).Methods(http.MethodDelete)
	u.HandleFunc("/{id}/programs", d.AuthGuard.OptionalUser(d.Universities.Programs)).Methods(http.MethodGet)

	var h http.Handler = r
	if d.CORSEnabled {
		h = middleware.CORS(d.CORSAllowedOrigins, d.CORSAllowCredentials, d.CorrelationIDHeader)(h)
	}
	h = middleware.Recover(d.Logger)(h)
	if d.EnableRequestLog {
		h = middleware.AccessLog(d.Logger)(h)
	}
	return middleware.CorrelationID(d.CorrelationIDHeader)(h)
}
