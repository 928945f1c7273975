package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerifyAccessToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, 24*time.Hour)

	pair, err := svc.Issue("member-1", "family-1", "아빠", "OWNER")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("expected valid access token, got %v", err)
	}
	if claims.Subject != "member-1" {
		t.Fatalf("expected subject member-1, got %q", claims.Subject)
	}
	if claims.FamilyID != "family-1" {
		t.Fatalf("expected family-1, got %q", claims.FamilyID)
	}
	if claims.Nickname != "아빠" || claims.Role != "OWNER" {
		t.Fatalf("expected nickname/role claims, got %q/%q", claims.Nickname, claims.Role)
	}
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, 24*time.Hour)

	pair, err := svc.Issue("member-1", "family-1", "아빠", "OWNER")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh token on access check, got %v", err)
	}
	if _, err := svc.VerifyRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token on refresh check, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute, -time.Minute)

	pair, err := svc.Issue("member-1", "family-1", "아빠", "OWNER")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, 24*time.Hour)
	other := NewTokenService("other-secret", time.Hour, 24*time.Hour)

	pair, err := other.Issue("member-1", "family-1", "아빠", "OWNER")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPINHasherRoundTrip(t *testing.T) {
	hasher := NewPINHasher()

	hashed, err := hasher.Hash("1234")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hashed == "1234" {
		t.Fatal("expected hash to differ from raw pin")
	}
	if !hasher.Verify("1234", hashed) {
		t.Fatal("expected matching pin to verify")
	}
	if hasher.Verify("4321", hashed) {
		t.Fatal("expected wrong pin to fail verification")
	}
}
