package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"naviroute/gateway/pkg/config"
	"naviroute/gateway/pkg/proxy"
	"naviroute/gateway/pkg/proxy/types"
)

// BasicAuthMiddleware rejects requests without the configured HTTP Basic
// credentials with 401. Credentials are compared in constant time.
//
//	handler = BasicAuthMiddleware(&cfg.Server.BasicAuth)(handler)
func BasicAuthMiddleware(cfg *config.BasicAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		wantUser := []byte(cfg.Username)
		wantPass := []byte(cfg.Password)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			userMatch := subtle.ConstantTimeCompare([]byte(user), wantUser) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), wantPass) == 1

			if !ok || !userMatch || !passMatch {
				slog.WarnContext(r.Context(), "basic auth rejected",
					"path", r.URL.Path,
					"credentials_present", ok,
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="naviroute", charset="UTF-8"`)
				proxy.WriteErrorResponse(w, types.NewErrorResponse("invalid or missing credentials", types.ErrorTypeAuthentication, "", ""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
