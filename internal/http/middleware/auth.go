package middleware

import (
	"net/http"

	"bridgerh/internal/common"
	"bridgerh/internal/http/response"
)

// SessionCookieName is the HTTP-only cookie carrying the admin session token.
const SessionCookieName = "admin_token"

// SessionValidator is implemented by the auth service. Any failure is a
// generic unauthenticated result; sub-cases are never surfaced.
type SessionValidator interface {
	ValidateSession(token string) error
}

type AuthMiddleware struct {
	sessions SessionValidator
}

func NewAuthMiddleware(sessions SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAdmin gates a handler on a valid admin session cookie. The check
// lives at the endpoint, not in any presentation layer.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "not authenticated", nil))
			return
		}
		if err := m.sessions.ValidateSession(cookie.Value); err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "not authenticated", err))
			return
		}
		next.ServeHTTP(w, r)
	})
}
