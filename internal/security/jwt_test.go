package security

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	provider := NewJWTProvider("secret")

	token, expiresAt, err := provider.Generate("admin", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(strings.Split(token, ".")) != 3 {
		t.Fatalf("expected a three-part token, got %q", token)
	}
	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp != expiresAt.Unix() {
		t.Fatalf("expected exp %d, got %d", expiresAt.Unix(), claims.Exp)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTProvider("secret-a").Generate("admin", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := NewJWTProvider("secret-b").Parse(token); err == nil {
		t.Fatalf("expected a signature error across secrets")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	provider := NewJWTProvider("secret")
	token, _, err := provider.Generate("admin", "admin", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := provider.Parse(token); err == nil {
		t.Fatalf("expected an expiry error")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	provider := NewJWTProvider("secret")
	for _, token := range []string{"", "abc", "a.b", "a.b.c.d"} {
		if _, err := provider.Parse(token); err == nil {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}
