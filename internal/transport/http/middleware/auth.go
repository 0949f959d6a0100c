package middleware

import (
	"context"
	"net/http"
	"strings"

	"payslip/internal/domain/auth"
	"payslip/internal/transport/http/api"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// RequireAuth rejects requests without a valid bearer token and puts
// the verified claims on the request context.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", GetRequestID(r.Context()))
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token", GetRequestID(r.Context()))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ctxKeyUser).(*auth.Claims)
	return claims, ok
}
