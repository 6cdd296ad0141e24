package http

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuth gates the API with a single configured credential pair. An empty
// username disables the gate (demo mode).
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) enabled() bool {
	return a.Username != ""
}

// Middleware rejects requests whose Basic credentials do not match, using
// constant-time comparison.
func (a BasicAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled() {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(a.Username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(a.Password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="quiz"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
