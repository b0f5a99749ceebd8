package middleware

import (
	"context"
	"net/http"
	"strings"
	"study_platform/internal/common"
	"study_platform/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserEmailCtxKey contextKey = "userEmail"

// Authenticator guards protected routes: it rejects requests whose bearer
// token is missing, invalid, or expired before the handler runs, and attaches
// the authenticated email to the request context otherwise.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		email, err := security.GetEmailFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserEmailCtxKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserEmailFromContext returns the authenticated email set by Authenticator.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailCtxKey).(string)
	return email, ok
}
