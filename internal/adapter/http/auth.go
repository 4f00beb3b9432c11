package http

import (
	"net/http"
	"strings"
)

type TokenVerifier interface {
	Enabled() bool
	Verify(token string) error
}

// AuthMiddleware requires "Authorization: Bearer <token>" when the verifier
// is enabled and passes every request through otherwise.
func AuthMiddleware(auth TokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth == nil || !auth.Enabled() {
			next(w, r)
			return
		}

		if err := auth.Verify(bearerToken(r)); err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="scribe"`)
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   "Unauthorized",
			})
			return
		}

		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
