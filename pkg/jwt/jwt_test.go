package jwt

import (
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("tecnico@example.com", 7)
	if err != nil {
		t.Fatalf("GenerateToken() = %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() = %v", err)
	}

	// Middleware'in okuduğu claim'ler
	if got, ok := claims["user_id"].(float64); !ok || uint(got) != 7 {
		t.Errorf("user_id claim = %v", claims["user_id"])
	}
	if got, ok := claims["email"].(string); !ok || got != "tecnico@example.com" {
		t.Errorf("email claim = %v", claims["email"])
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken("tecnico@example.com", 7)
	if err != nil {
		t.Fatalf("GenerateToken() = %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected validation failure with wrong secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
