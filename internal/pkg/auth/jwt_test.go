package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", TokenExp: exp, TokenIssuer: "bluecollar.test"})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.GenerateToken("worker-1", models.RoleWorker)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.UserID() != "worker-1" || claims.Role != models.RoleWorker {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id")
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, err := svc.GenerateToken("worker-1", models.RoleWorker)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateAndExtractClaims(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestWrongSecretAndRole(t *testing.T) {
	token, err := newTestService(time.Hour).GenerateToken("u", models.RoleEmployer)
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other", TokenExp: time.Hour, TokenIssuer: "bluecollar.test"})
	if _, err := other.ValidateAndExtractClaims(token); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	svc := newTestService(time.Hour)
	bad, err := svc.GenerateToken("u", models.RoleType("admin"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateAndExtractClaims(bad); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expected unknown role to be rejected, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer a.b.c", "a.b.c", false},
		{"a.b.c", "a.b.c", false},
		{"\"Bearer a.b.c\"", "a.b.c", false},
		{"", "", true},
		{"Bearer nodots", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractBearerToken(%q) err = %v", tt.header, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
