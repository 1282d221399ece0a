package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const adminContextKey contextKey = "admin"

// AdminCredentials protects the /admin surface.
// An empty PasswordHash disables admin access entirely.
type AdminCredentials struct {
	Username     string
	PasswordHash []byte
}

// Enabled reports whether admin access is configured.
func (c AdminCredentials) Enabled() bool {
	return len(c.PasswordHash) > 0
}

// HashPassword returns the bcrypt hash stored in SIGSITE_ADMIN_PASSWORD_HASH.
// PRE: password is non-empty
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// AdminAuth returns middleware requiring HTTP basic auth for paths under prefix.
// Other paths pass through untouched.
func AdminAuth(creds AdminCredentials, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
			if !creds.Enabled() {
				http.Error(w, "admin access is not configured", http.StatusForbidden)
				return
			}
			user, pass, ok := r.BasicAuth()
			if !ok || !checkAdmin(creds, user, pass) {
				if ok {
					slog.Warn("admin_auth_failed", "user", user, "remote", r.RemoteAddr)
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="sigsite admin", charset="UTF-8"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminContextKey, user)))
		})
	}
}

func checkAdmin(creds AdminCredentials, user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(creds.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(pass)) == nil
	return userOK && passOK
}

// AdminUser returns the authenticated admin user name, if any.
func AdminUser(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(adminContextKey).(string)
	return u, ok
}
