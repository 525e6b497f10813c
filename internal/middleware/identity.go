package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

type identityContextKey struct{}

// Identity is the resolved caller of a request. Credential verification
// happens upstream; this service trusts the forwarded headers.
type Identity struct {
	UserID       int64
	IsPrivileged bool
}

// IdentityFromContext returns the resolved caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// ContextWithIdentity attaches a resolved caller to the context. Exposed for
// handler tests.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

var identityExemptPaths = []string{
	"/health",
	"/docs",
}

// ResolveIdentity creates middleware that resolves the caller from trusted
// headers and rejects requests without one.
func ResolveIdentity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isIdentityExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
			if err != nil || userID <= 0 {
				logger.Debug("request without resolvable identity", "path", r.URL.Path)
				writeUnauthenticated(w)
				return
			}

			identity := Identity{
				UserID:       userID,
				IsPrivileged: strings.EqualFold(r.Header.Get(userRoleHeader), "admin"),
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isIdentityExempt(path string) bool {
	if path == "/" {
		return true
	}
	for _, exempt := range identityExemptPaths {
		if strings.HasPrefix(path, exempt) {
			return true
		}
	}
	return false
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthenticated",
		"message": "request has no resolved identity",
	})
}
