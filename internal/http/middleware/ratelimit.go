package middleware

import (
	"net"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

func RateLimit(l *rate_limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !l.Allow(ip) {
				logger.Warn(r.Context(), "rate limit exceeded", "ip", ip, "path", r.URL.Path)
				writeError(w, apperror.NewRateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
