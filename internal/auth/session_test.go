package auth

import (
	"net/http"
	"testing"
	"time"
)

func TestNewSessionCookie(t *testing.T) {
	now := time.Now().UTC()
	cookie := NewSessionCookie("token-value", now)

	if cookie.Name != SessionCookieName {
		t.Fatalf("unexpected cookie name: %s", cookie.Name)
	}
	if cookie.Value != "token-value" {
		t.Fatalf("unexpected cookie value: %s", cookie.Value)
	}
	if got := cookie.Expires.Sub(now); got != 30*24*time.Hour {
		t.Fatalf("expected 30-day expiry, got %v", got)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Fatal("cookie must be HttpOnly and Secure")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected SameSite mode: %v", cookie.SameSite)
	}
}

func TestExpiredSessionCookie(t *testing.T) {
	cookie := ExpiredSessionCookie()

	if cookie.Value != "" {
		t.Fatalf("clearing cookie must carry an empty value, got %q", cookie.Value)
	}
	if !cookie.Expires.Before(time.Now()) {
		t.Fatalf("clearing cookie must already be expired, got %v", cookie.Expires)
	}
	if cookie.MaxAge >= 0 {
		t.Fatalf("clearing cookie must have negative MaxAge, got %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatal("clearing cookie must keep the hardened attributes")
	}
}
