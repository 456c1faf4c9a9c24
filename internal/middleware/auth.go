package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rmehta/blogr/internal/auth"
)

// ResolveIdentity resolves the session cookie to an identity once per
// request and stores it on the context. A missing or stale session leaves
// the request anonymous; only a store failure aborts it.
func ResolveIdentity(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
				token = cookie.Value
			}
			id, err := svc.ResolveIdentity(r.Context(), token)
			if err != nil {
				zap.L().Error("identity resolution failed", zap.Error(err))
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. It only shields the
// route; the services re-check identity and ownership themselves.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.IdentityFrom(r.Context()) == nil {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
