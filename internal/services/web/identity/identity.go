// Package identity verifies signed identity tokens issued at sign-in.
//
// Tokens are EdDSA-signed JWTs. The same token doubles as the bearer
// credential for support API calls, so the dashboard never mints its own
// backend credentials.
package identity

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified actor behind a session token.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// Verifier validates identity tokens against a fixed issuer and audience.
type Verifier struct {
	issuer    string
	audience  string
	publicKey ed25519.PublicKey
}

// NewVerifier builds a Verifier from a base64-encoded ed25519 public key.
func NewVerifier(issuer string, audience string, encodedPublicKey string) (*Verifier, error) {
	issuer = strings.TrimSpace(issuer)
	audience = strings.TrimSpace(audience)
	encodedPublicKey = strings.TrimSpace(encodedPublicKey)
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if audience == "" {
		return nil, errors.New("audience is required")
	}
	if encodedPublicKey == "" {
		return nil, errors.New("public key is required")
	}
	keyBytes, err := decodeBase64(encodedPublicKey)
	if err != nil {
		return nil, fmt.Errorf("decode identity public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("identity public key must be %d bytes", ed25519.PublicKeySize)
	}
	return &Verifier{
		issuer:    issuer,
		audience:  audience,
		publicKey: ed25519.PublicKey(keyBytes),
	}, nil
}

// NewVerifierForKey builds a Verifier from an in-memory public key.
func NewVerifierForKey(issuer string, audience string, publicKey ed25519.PublicKey) (*Verifier, error) {
	if strings.TrimSpace(issuer) == "" {
		return nil, errors.New("issuer is required")
	}
	if strings.TrimSpace(audience) == "" {
		return nil, errors.New("audience is required")
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("identity public key must be %d bytes", ed25519.PublicKeySize)
	}
	return &Verifier{
		issuer:    strings.TrimSpace(issuer),
		audience:  strings.TrimSpace(audience),
		publicKey: publicKey,
	}, nil
}

type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Verify parses and validates a raw token, returning the actor it names.
func Verify(verifier *Verifier, rawToken string) (Identity, error) {
	if verifier == nil {
		return Identity{}, errors.New("verifier is not configured")
	}
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Identity{}, errors.New("token is required")
	}
	var claims identityClaims
	_, err := jwt.ParseWithClaims(
		rawToken,
		&claims,
		func(*jwt.Token) (any, error) { return verifier.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(verifier.issuer),
		jwt.WithAudience(verifier.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("verify identity token: %w", err)
	}
	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return Identity{}, errors.New("identity token has no subject")
	}
	displayName := strings.TrimSpace(claims.Name)
	email := strings.TrimSpace(claims.Email)
	if displayName == "" {
		displayName = displayNameFromEmail(email)
	}
	return Identity{UserID: userID, Email: email, DisplayName: displayName}, nil
}

func displayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}

func decodeBase64(value string) ([]byte, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
