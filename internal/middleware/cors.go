package middleware

import (
	"net/http"
	"strings"
)

// Cors allows the bundled frontend (and local dev servers) to talk to the
// API. A personal single-user app, so the list is short and permissive.
func Cors() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowOrigin := "*"
			if origin != "" && strings.HasPrefix(origin, "http://localhost") {
				allowOrigin = origin
			}

			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers",
				"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization",
			)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")

			next.ServeHTTP(w, r)
		})
	}
}
