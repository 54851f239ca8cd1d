package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the browser cookie carrying the bearer token.
const SessionCookieName = "session"

// Session cookies outlive the 24h token on purpose: a replayed cookie
// with an expired token is still rejected by token verification.
const sessionTTL = 30 * 24 * time.Hour

// NewSessionCookie wraps a token in a persistent session cookie.
func NewSessionCookie(token string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(sessionTTL),
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie returns the cookie sent on logout: empty value,
// expiry in the past. Clearing is idempotent and does not depend on the
// previous cookie's contents.
func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
