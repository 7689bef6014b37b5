package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/infrastructure/http/response"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type RateLimitPolicy struct {
	Attempts      int
	Window        time.Duration
	BlockDuration time.Duration
	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP instead
	// of the socket address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	policy           RateLimitPolicy
	logger           logger.Logger
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, policy RateLimitPolicy, logger logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		policy:           policy,
		logger:           logger,
	}
}

// Limit counts requests per client IP under scope. Exceeding the limit blocks
// the key for BlockDuration. A failing store lets the request through.
func (m *RateLimitMiddleware) Limit(scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := ClientIP(r, m.policy.TrustProxyHeaders)
		key := fmt.Sprintf("%s:ip:%s", scope, clientIP)

		blocked, err := m.rateLimitService.IsBlocked(ctx, key)
		if err != nil {
			m.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"key": key})
		}
		if blocked {
			logger.LogSecurityEvent(ctx, m.logger, "rate_limit_blocked", "MEDIUM", map[string]interface{}{
				"ip":        clientIP,
				"path":      r.URL.Path,
				"userAgent": r.UserAgent(),
			})
			m.reject(w)
			return
		}

		allowed, err := m.rateLimitService.Allow(ctx, key, m.policy.Attempts, m.policy.Window)
		if err != nil {
			m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"key": key})
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			if err := m.rateLimitService.Block(ctx, key, m.policy.BlockDuration, "Rate limit exceeded"); err != nil {
				m.logger.Error(ctx, "Failed to block client", err, map[string]interface{}{"key": key})
			}
			logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", map[string]interface{}{
				"ip":        clientIP,
				"path":      r.URL.Path,
				"userAgent": r.UserAgent(),
			})
			m.reject(w)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (m *RateLimitMiddleware) reject(w http.ResponseWriter) {
	w.Header().Set("Retry-After", strconv.Itoa(int(m.policy.BlockDuration.Seconds())))
	response.TooManyRequests(w)
}

// ClientIP returns the host part of RemoteAddr. With trustProxy set it
// prefers the first X-Forwarded-For entry, then X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		return forwardedIP(r)
	}
	return remoteHost(r)
}

func forwardedIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
