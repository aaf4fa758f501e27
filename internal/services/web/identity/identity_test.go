package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newIssuerAndVerifier(t *testing.T) (*DemoIssuer, *Verifier) {
	t.Helper()
	issuer, err := NewDemoIssuer("https://id.helpdeck.test", "helpdeck-web", time.Minute)
	if err != nil {
		t.Fatalf("NewDemoIssuer() error = %v", err)
	}
	verifier, err := issuer.Verifier()
	if err != nil {
		t.Fatalf("Verifier() error = %v", err)
	}
	return issuer, verifier
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	issuer, verifier := newIssuerAndVerifier(t)
	token, err := issuer.Issue("Ada@Example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	identity, err := Verify(verifier, token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.Email != "ada@example.com" {
		t.Fatalf("Email = %q, want ada@example.com", identity.Email)
	}
	if identity.UserID != "demo:ada@example.com" {
		t.Fatalf("UserID = %q", identity.UserID)
	}
	if identity.DisplayName != "ada" {
		t.Fatalf("DisplayName = %q, want ada", identity.DisplayName)
	}
}

func TestIssueRejectsInvalidEmail(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuerAndVerifier(t)
	for _, email := range []string{"", "   ", "not-an-email"} {
		if _, err := issuer.Issue(email); err == nil {
			t.Errorf("Issue(%q) expected error", email)
		}
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	issuer, _ := newIssuerAndVerifier(t)
	_, otherVerifier := newIssuerAndVerifier(t)

	token, err := issuer.Issue("ada@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := Verify(otherVerifier, token); err == nil {
		t.Fatal("token signed by another key must not verify")
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	t.Parallel()

	issuer, err := NewDemoIssuer("https://id.helpdeck.test", "some-other-app", time.Minute)
	if err != nil {
		t.Fatalf("NewDemoIssuer() error = %v", err)
	}
	token, err := issuer.Issue("ada@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	verifier, err := issuer.Verifier()
	if err != nil {
		t.Fatalf("Verifier() error = %v", err)
	}
	if _, err := Verify(verifier, token); err != nil {
		t.Fatalf("matching audience must verify: %v", err)
	}

	mismatched, err := NewVerifierForKey("https://id.helpdeck.test", "helpdeck-web", publicKeyOf(t, issuer))
	if err != nil {
		t.Fatalf("NewVerifierForKey() error = %v", err)
	}
	if _, err := Verify(mismatched, token); err == nil {
		t.Fatal("token for another audience must not verify")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    "https://id.helpdeck.test",
		Audience:  jwt.ClaimStrings{"helpdeck-web"},
		Subject:   "demo:ada@example.com",
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(privateKey)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	verifier, err := NewVerifierForKey("https://id.helpdeck.test", "helpdeck-web", publicKey)
	if err != nil {
		t.Fatalf("NewVerifierForKey() error = %v", err)
	}
	if _, err := Verify(verifier, token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, verifier := newIssuerAndVerifier(t)
	for _, raw := range []string{"", "   ", "a.b.c", strings.Repeat("x", 64)} {
		if _, err := Verify(verifier, raw); err == nil {
			t.Errorf("Verify(%q) expected error", raw)
		}
	}
}

func publicKeyOf(t *testing.T, issuer *DemoIssuer) ed25519.PublicKey {
	t.Helper()
	return issuer.publicKey
}
