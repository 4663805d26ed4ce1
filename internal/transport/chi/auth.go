package chi

import (
	"net/http"
	"strings"
)

// Request headers carrying caller identity.
const (
	// AdminKeyHeader carries the cache admin key. A Bearer token is accepted too.
	AdminKeyHeader = "X-Admin-Key"
	// ClientIDHeader names the owner of a favorites list.
	ClientIDHeader = "X-Client-ID"
)

// adminKey extracts the admin credential from X-Admin-Key or an
// Authorization Bearer token. Returns "" when neither is present.
func adminKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get(AdminKeyHeader)); k != "" {
		return k
	}
	const bearerPrefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return ""
}

// RequireClientID rejects requests without an X-Client-ID header.
func RequireClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get(ClientIDHeader)) == "" {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "missing "+ClientIDHeader+" header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ClientIDHeader))
}
