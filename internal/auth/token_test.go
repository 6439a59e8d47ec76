package auth

import (
	"testing"
	"time"
)

func TestNewSignerRequiresSecret(t *testing.T) {
	if _, err := NewSigner("  ", time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestMintVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	token, err := signer.Mint(42)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if token.ID == "" || token.Signed == "" {
		t.Fatalf("incomplete token: %+v", token)
	}
	if token.ExpiresAt.Before(time.Now()) {
		t.Fatal("expected token to expire in the future")
	}

	claims, err := signer.Verify(token.Signed)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != 42 || claims.ID != token.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer, err := NewSigner("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	other, err := NewSigner("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	token, err := signer.Mint(1)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if _, err := other.Verify(token.Signed); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, err := NewSigner("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	signer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := signer.Mint(1)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	signer.now = time.Now
	if _, err := signer.Verify(token.Signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestMintRequiresUser(t *testing.T) {
	signer, err := NewSigner("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	if _, err := signer.Mint(0); err == nil {
		t.Fatal("expected error for missing user id")
	}
}

func TestNilSignerIsSafe(t *testing.T) {
	var signer *Signer
	if _, err := signer.Mint(1); err == nil {
		t.Fatal("expected error for nil signer")
	}
	if _, err := signer.Verify("token"); err == nil {
		t.Fatal("expected error for nil signer")
	}
}
