package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", 1)
	id := uuid.New()

	token, err := svc.Generate(id, "u@example.com", "super")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != id {
		t.Errorf("UserID = %s, want %s", claims.UserID, id)
	}
	if claims.Email != "u@example.com" {
		t.Errorf("Email = %s, want u@example.com", claims.Email)
	}
	if claims.Role != "super" {
		t.Errorf("Role = %s, want super", claims.Role)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).Generate(uuid.New(), "u@example.com", "admin")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := NewJWTService("secret-b", 1).Validate(token); err == nil {
		t.Error("Validate() with wrong secret succeeded, want error")
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewJWTService("secret", 1)
	for _, s := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.Validate(s); err == nil {
			t.Errorf("Validate(%q) succeeded, want error", s)
		}
	}
}
