package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testUser() *User {
	return &User{
		ID:     42,
		Email:  "analyst@example.com",
		Role:   RoleAdmin,
		Status: StatusActive,
		Tier:   TierPro,
	}
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService(""); err == nil {
		t.Fatal("expected construction to fail without a secret")
	}
	if _, err := NewTokenService("   "); err == nil {
		t.Fatal("expected construction to fail with a blank secret")
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, expiresAt, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got := time.Until(expiresAt); got < 23*time.Hour || got > 24*time.Hour {
		t.Fatalf("expected ~24h lifetime, got %v", got)
	}
	if len(strings.Split(token, ".")) != 3 {
		t.Fatalf("expected three-segment token, got %q", token)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected user id: %d", userID)
	}
	if claims.Email != "analyst@example.com" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}
	if claims.Role != string(RoleAdmin) {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	current := time.Now().UTC()
	svc, err := NewTokenService("test-secret", WithTokenClock(func() time.Time { return current }))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, _, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should verify before expiry: %v", err)
	}

	current = current.Add(tokenTTL + time.Minute)
	if _, err := svc.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, _, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, err := NewTokenService("secret-one")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	verifier, err := NewTokenService("secret-two")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, _, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	for _, raw := range []string{"", "   ", "nonsense", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(raw); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: expected ErrMalformedToken, got %v", raw, err)
		}
	}
}
