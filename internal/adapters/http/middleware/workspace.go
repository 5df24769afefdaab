package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
)

const workspaceContextKey contextKey = "workspace"

// contextKey is an unexported type for context keys in this package.
type contextKey string

// WorkspaceCookieName is the cookie that ties a browser to its dashboard workspace.
const WorkspaceCookieName = "portal_workspace"

// workspaceTokenBytes is the entropy of a workspace token before hex encoding.
const workspaceTokenBytes = 32

// WorkspaceCookieMaxAge matches the idle expiry of a workspace (24 hours).
const WorkspaceCookieMaxAge = 86400

// Workspace returns middleware that makes sure every request carries a workspace token.
// A missing or malformed cookie is replaced by a fresh token.
func Workspace(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(WorkspaceCookieName); err == nil && validToken(c.Value) {
				token = c.Value
			}
			if token == "" {
				t, err := generateToken()
				if err != nil {
					slog.Error("internal_error", "error", err, "path", r.URL.Path)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				token = t
			}
			// Refresh on every request so the cookie lives as long as the workspace.
			setWorkspaceCookie(w, token, secure)
			next.ServeHTTP(w, r.WithContext(ContextWithWorkspace(r.Context(), token)))
		})
	}
}

// ContextWithWorkspace returns a copy of ctx carrying the workspace token.
func ContextWithWorkspace(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, workspaceContextKey, token)
}

// WorkspaceFromContext extracts the workspace token from the request context.
func WorkspaceFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(workspaceContextKey).(string)
	return token, ok && token != ""
}

func setWorkspaceCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     WorkspaceCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   WorkspaceCookieMaxAge,
	})
}

func generateToken() (string, error) {
	b := make([]byte, workspaceTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validToken(s string) bool {
	if len(s) != 2*workspaceTokenBytes {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
