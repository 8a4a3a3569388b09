package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/macrotrack/internal/ctxkeys"
	"github.com/templui/macrotrack/internal/respond"
	"github.com/templui/macrotrack/internal/service"
)

// AuthCookie carries the token for browser sessions without an
// Authorization header.
const AuthCookie = "auth_token"

// RequireAuth resolves the bearer token to a user id and stores it in the
// request context. Requests without a valid token get 401.
func RequireAuth(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, err := authService.ResolveUser(bearerToken(r))
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next(w, r.WithContext(ctx))
		}
	}
}

// bearerToken reads the Authorization header, falling back to the auth
// cookie.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	cookie, err := r.Cookie(AuthCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
