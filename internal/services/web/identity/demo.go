package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DemoIssuer mints short-lived identity tokens from an ephemeral keypair.
// It backs local development sign-in when no external identity provider is
// configured. Tokens die with the process because the key is never persisted.
type DemoIssuer struct {
	issuer     string
	audience   string
	ttl        time.Duration
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewDemoIssuer creates a demo issuer with a fresh keypair.
func NewDemoIssuer(issuer string, audience string, ttl time.Duration) (*DemoIssuer, error) {
	issuer = strings.TrimSpace(issuer)
	audience = strings.TrimSpace(audience)
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if audience == "" {
		return nil, errors.New("audience is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate demo keypair: %w", err)
	}
	return &DemoIssuer{
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
		privateKey: privateKey,
		publicKey:  publicKey,
	}, nil
}

// Issue mints a token for the given email address.
func (d *DemoIssuer) Issue(email string) (string, error) {
	if d == nil {
		return "", errors.New("demo issuer is not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", errors.New("a valid email address is required")
	}
	now := time.Now().UTC()
	claims := identityClaims{
		Email: email,
		Name:  displayNameFromEmail(email),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    d.issuer,
			Audience:  jwt.ClaimStrings{d.audience},
			Subject:   "demo:" + email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(d.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign demo token: %w", err)
	}
	return signed, nil
}

// Verifier returns a verifier matching this issuer's keypair.
func (d *DemoIssuer) Verifier() (*Verifier, error) {
	if d == nil {
		return nil, errors.New("demo issuer is not configured")
	}
	return NewVerifierForKey(d.issuer, d.audience, d.publicKey)
}
