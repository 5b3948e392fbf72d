// Package auth provides optional bearer-token authentication for the API.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Config holds authentication configuration. Auth is enabled when Token is
// non-empty.
type Config struct {
	Token string
}

// Enabled reports whether requests must carry the token.
func (c Config) Enabled() bool {
	return c.Token != ""
}

// exemptPaths are always public regardless of auth configuration.
var exemptPaths = map[string]bool{
	"/":        true,
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// Middleware returns an HTTP middleware that enforces Bearer token auth
// on non-exempt paths when auth is enabled.
func Middleware(cfg Config, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled() || exemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")

			if !found || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) != 1 {
				logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Bool("header", header != ""))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
