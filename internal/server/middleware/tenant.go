package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireTenant rejects any request whose credentials did not resolve to a
// clinic. It runs after Auth, which is the only writer of the tenant ID;
// a missing or nil ID here means the key lookup never happened.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid, ok := TenantIDFromContext(r.Context())
			if !ok || tid == uuid.Nil {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"request is not bound to a clinic"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
