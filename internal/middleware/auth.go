package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// CallerHeader names the header DevAuth trusts for the caller principal.
const CallerHeader = "X-Caller"

// devCaller is the principal assigned when DevAuth sees no caller header.
const devCaller = "dev"

type principalKey struct{}

// WithPrincipal stores the caller principal in the context.
func WithPrincipal(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, principalKey{}, name)
}

// PrincipalFromContext extracts the caller principal from the context.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(principalKey{}).(string)
	return name, ok
}

// DevAuth trusts the X-Caller header outright and admits every request.
// Production configurations refuse this mode.
func DevAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := strings.TrimSpace(r.Header.Get(CallerHeader))
			if caller == "" {
				caller = devCaller
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), caller)))
		})
	}
}

// TokenAuth validates a Bearer token and takes its subject claim as the
// caller principal. Returns 401 when the token is missing, invalid, or
// carries no subject.
func TokenAuth(validator JWTValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "unauthorized: provide a Bearer token")
				return
			}
			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "unauthorized: "+err.Error())
				return
			}
			if claims.Subject == "" {
				writeUnauthorized(w, "unauthorized: token has no subject")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims.Subject)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
