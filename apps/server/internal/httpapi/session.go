package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookie = "session_id"
	SessionHeader = "X-Session-ID"

	maxSessionIDLen  = 128
	sessionCookieTTL = 24 * time.Hour
)

// SessionID reads the caller's session id from the X-Session-ID header or the
// session_id cookie, header first.
func SessionID(r *http.Request) (string, bool) {
	if id := cleanSessionID(r.Header.Get(SessionHeader)); id != "" {
		return id, true
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id := cleanSessionID(c.Value); id != "" {
			return id, true
		}
	}
	return "", false
}

// ensureSession returns the caller's id, issuing a new one when absent.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := SessionID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
	return id
}

func cleanSessionID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxSessionIDLen {
		return ""
	}
	return raw
}
