package auth_test

import (
	"testing"

	"sitetrack/backend/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	a := auth.NewAuth("test-key")

	access, refresh, err := a.GenerateTokens(42, auth.RoleWorker)
	if err != nil {
		t.Fatalf("GenerateTokens() error = %v", err)
	}

	for _, token := range []string{access, refresh} {
		claims, err := a.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.UserId != 42 {
			t.Errorf("claims.UserId = %d, want 42", claims.UserId)
		}
		if claims.Role != auth.RoleWorker {
			t.Errorf("claims.Role = %q, want %q", claims.Role, auth.RoleWorker)
		}
	}
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	access, _, err := auth.NewAuth("key-one").GenerateTokens(1, auth.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateTokens() error = %v", err)
	}

	if _, err := auth.NewAuth("key-two").ValidateToken(access); err == nil {
		t.Error("ValidateToken() accepted a token signed with another key")
	}
}

func TestAuthorized(t *testing.T) {
	claims := auth.Claims{Role: auth.RoleSupervisor}

	if !claims.Authorized(auth.RoleWorker, auth.RoleSupervisor) {
		t.Error("Authorized() = false for a listed role")
	}
	if claims.Authorized(auth.RoleAdmin) {
		t.Error("Authorized() = true for an unlisted role")
	}
	if claims.Authorized() {
		t.Error("Authorized() = true with no roles listed")
	}
}
