// Package middleware holds HTTP middleware shared by the web server.
package middleware

import (
	"net/http"
	"net/url"
	"os"
	"strings"
)

// allowedOrigins decides which request origins receive CORS headers.
// Localhost origins always pass so local frontends work without
// configuration; everything else must be listed in WEB_ALLOWED_ORIGINS.
type allowedOrigins map[string]struct{}

func originsFromEnv() allowedOrigins {
	origins := make(allowedOrigins)
	for o := range strings.SplitSeq(os.Getenv("WEB_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = struct{}{}
		}
	}
	return origins
}

func (a allowedOrigins) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := a[origin]; ok {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() == "localhost"
}

// CORS returns middleware that handles CORS headers with an origin
// whitelist read from the WEB_ALLOWED_ORIGINS environment variable
// (comma-separated). Preflight requests are answered directly.
func CORS() func(http.Handler) http.Handler {
	allowed := originsFromEnv()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); allowed.allows(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Requested-With")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
