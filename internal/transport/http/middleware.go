package http

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/umphart/musabaha-ltd-backend/internal/auth"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

// RequestLogger logs basic request details and latency.
func RequestLogger(next http.Handler, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Printf(
			"request method=%s path=%s status=%d duration=%s",
			r.Method,
			r.URL.Path,
			rec.status,
			time.Since(start),
		)
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

// TokenVerifier is the slice of the authenticator middleware needs.
type TokenVerifier interface {
	VerifyToken(raw string) (auth.Claims, error)
}

type claimsKey struct{}

// RequireAuth validates the bearer token and, when roles are given, checks
// the caller holds one of them. Verified claims are stored on the request
// context for handlers.
func RequireAuth(verifier TokenVerifier, next http.Handler, roles ...domain.AccountRole) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func claimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}
