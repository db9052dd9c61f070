package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	token, err := GenerateJWT(secret, userID, "brand", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Role != "brand" {
		t.Errorf("Role = %q, want %q", claims.Role, "brand")
	}
	if claims.Issuer != "creatorlink" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "creatorlink")
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret-a", uuid.New(), "creator", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	if _, err := ParseJWT("secret-b", token); err == nil {
		t.Error("ParseJWT() with wrong secret should fail")
	}
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT("secret", uuid.New(), "creator", -time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	if _, err := ParseJWT("secret", token); err == nil {
		t.Error("ParseJWT() of expired token should fail")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("secret", "not.a.token"); err == nil {
		t.Error("ParseJWT() of garbage should fail")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2" {
		t.Error("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
