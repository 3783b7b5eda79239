package auth

import (
	"net/http"

	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// RequireAdmin gates catalog mutation and analytics behind the session
// admin flag. The core treats it as an opaque capability check.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if !sess.Authenticated() {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		if !sess.IsAdmin() {
			httpx.RespondError(w, shared.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
