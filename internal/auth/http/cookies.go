package http

import (
	"net/http"
	"time"

	"github.com/specsmith/specsmith/backend/internal/common/constants"
)

// SessionCookies reads and writes the single session cookie for one
// request/response pair. Exactly one cookie exists per browser context;
// Set always supersedes the prior value.
type SessionCookies struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

func NewSessionCookies(w http.ResponseWriter, r *http.Request, secure bool) *SessionCookies {
	return &SessionCookies{w: w, r: r, secure: secure}
}

func (c *SessionCookies) Set(token string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(constants.SessionTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
}

func (c *SessionCookies) Get() (string, bool) {
	cookie, err := c.r.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear deletes the cookie. Clearing an absent cookie is not an error.
func (c *SessionCookies) Clear() {
	http.SetCookie(c.w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
}
