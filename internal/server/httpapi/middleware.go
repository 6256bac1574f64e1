package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/fieldkeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// loginRateKeyPrefix namespaces the per-IP login counters in Redis.
const loginRateKeyPrefix = "login_rate:"

// userIDFromContext returns the user id stored by withAuth.
func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// withAuth requires a valid bearer access token and stores the token's
// user id in the request context.
func (s *HTTPServer) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loginRateLimit throttles requests per client IP with a Redis counter.
// The key expires after the configured window; when Redis is unreachable
// the limiter fails open so logins keep working.
func (s *HTTPServer) loginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rdb == nil || s.rateLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := loginRateKeyPrefix + clientIP(r)
		n, err := s.rdb.Incr(r.Context(), key).Result()
		if err != nil {
			s.logger.Warn(r.Context(), "rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if n == 1 {
			s.rdb.Expire(r.Context(), key, s.rateWindow)
		}
		if n > int64(s.rateLimit) {
			s.writeError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverPanics converts a panicking handler into a logged diagnostic and
// a plain 500 response.
func (s *HTTPServer) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(r.Context(), "panic in handler", "path", r.URL.Path, "panic", p)
				s.writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the originating address, preferring X-Forwarded-For
// when a proxy added it.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
