package services

import (
	"strings"
	"testing"
	"time"
)

func newTestTokenService() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "careercraft-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

func TestPasswordHashing(t *testing.T) {
	svc := newTestTokenService()

	t.Run("hash and verify", func(t *testing.T) {
		hash, err := svc.HashPassword("s3cret-pass")
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		if !strings.HasPrefix(hash, "$argon2id$") {
			t.Fatalf("hash = %q, want argon2id format", hash)
		}
		if !svc.VerifyPassword("s3cret-pass", hash) {
			t.Fatal("correct password rejected")
		}
		if svc.VerifyPassword("wrong-pass", hash) {
			t.Fatal("wrong password accepted")
		}
	})

	t.Run("distinct salts", func(t *testing.T) {
		first, _ := svc.HashPassword("same")
		second, _ := svc.HashPassword("same")
		if first == second {
			t.Fatal("two hashes of the same password are identical")
		}
	})

	t.Run("garbage hash rejected", func(t *testing.T) {
		if svc.VerifyPassword("anything", "not-a-hash") {
			t.Fatal("malformed hash accepted")
		}
	})
}

func TestTokens(t *testing.T) {
	svc := newTestTokenService()

	t.Run("access token round trip", func(t *testing.T) {
		signed, exp, err := svc.CreateAccessToken("user-1", "u@example.com")
		if err != nil {
			t.Fatalf("CreateAccessToken: %v", err)
		}
		if exp <= time.Now().Unix() {
			t.Fatalf("expiry %d is in the past", exp)
		}
		token, claims, err := svc.ParseToken(signed)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if !token.Valid {
			t.Fatal("token not valid")
		}
		if claims["sub"] != "user-1" {
			t.Fatalf("sub = %v, want user-1", claims["sub"])
		}
		if claims["typ"] != "access" {
			t.Fatalf("typ = %v, want access", claims["typ"])
		}
		if claims["email"] != "u@example.com" {
			t.Fatalf("email = %v", claims["email"])
		}
	})

	t.Run("refresh token carries typ", func(t *testing.T) {
		signed, err := svc.CreateRefreshToken("user-1")
		if err != nil {
			t.Fatalf("CreateRefreshToken: %v", err)
		}
		_, claims, err := svc.ParseToken(signed)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if claims["typ"] != "refresh" {
			t.Fatalf("typ = %v, want refresh", claims["typ"])
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		signed, _, err := svc.CreateAccessToken("user-1", "u@example.com")
		if err != nil {
			t.Fatalf("CreateAccessToken: %v", err)
		}
		other := newTestTokenService()
		other.Secret = []byte("different")
		if _, _, err := other.ParseToken(signed); err == nil {
			t.Fatal("token signed with another secret parsed cleanly")
		}
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		other := newTestTokenService()
		other.Issuer = "someone-else"
		signed, _, err := other.CreateAccessToken("user-1", "u@example.com")
		if err != nil {
			t.Fatalf("CreateAccessToken: %v", err)
		}
		if _, _, err := svc.ParseToken(signed); err == nil {
			t.Fatal("token with foreign issuer parsed cleanly")
		}
	})
}
