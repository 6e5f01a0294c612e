package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	token, exp, err := tm.GenerateToken("user-123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", exp)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.SubjectID != "user-123" {
		t.Fatalf("subject mismatch: got %q want %q", claims.SubjectID, "user-123")
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", time.Hour)

	token, _, err := tm.GenerateTokenTTL("u1", "u1@example.com", -time.Second)
	if err != nil {
		t.Fatalf("GenerateTokenTTL error: %v", err)
	}

	if _, err := tm.ParseToken(token); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestParseToken_Tampered(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", time.Hour)

	token, _, err := tm.GenerateToken("u2", "u2@example.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := tm.ParseToken(tampered); err == nil {
		t.Fatalf("expected error for tampered token, got nil")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("right-secret", time.Hour).GenerateToken("u3", "u3@example.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := NewTokenManager("wrong-secret", time.Hour).ParseToken(token); err == nil {
		t.Fatalf("expected error for wrong secret, got nil")
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", time.Hour)

	for _, raw := range []string{"", "not-a-token", "only.two", "a.b.c.d"} {
		if _, err := tm.ParseToken(raw); err == nil {
			t.Fatalf("expected error for malformed token %q, got nil", raw)
		}
	}
}
