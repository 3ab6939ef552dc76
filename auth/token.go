package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider implements Provider over a fixed bearer token (from
// settings.toml or TODUI_TOKEN). Identity and expiry come from the token's
// own claims; the signature is the backend's to verify, so it is read
// unverified here.
type TokenProvider struct {
	token string
	now   func() time.Time
}

func NewTokenProvider(token string) *TokenProvider {
	return &TokenProvider{
		token: token,
		now:   time.Now,
	}
}

// claims parses the token without verifying the signature. Returns nil
// when the token is absent or not a parsable JWT.
func (p *TokenProvider) claims() *jwt.RegisteredClaims {
	if p.token == "" {
		return nil
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(p.token, claims); err != nil {
		return nil
	}
	return claims
}

// expired reports whether the token carries an exp claim in the past.
// Tokens without an exp claim are treated as non-expiring.
func (p *TokenProvider) expired(claims *jwt.RegisteredClaims) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(p.now())
}

// GetSession returns the user identity from the token's sub claim, or nil
// when the token is missing, unparsable, expired, or carries no subject.
func (p *TokenProvider) GetSession(_ context.Context) (*Session, error) {
	claims := p.claims()
	if claims == nil || claims.Subject == "" || p.expired(claims) {
		return nil, nil
	}
	return &Session{User: User{ID: claims.Subject}}, nil
}

// GetToken returns the raw bearer token while it is still valid. Expiry is
// re-checked on every call, so a token that lapses between session polls
// stops being handed out immediately.
func (p *TokenProvider) GetToken(_ context.Context) (string, error) {
	claims := p.claims()
	if claims == nil || p.expired(claims) {
		return "", nil
	}
	return p.token, nil
}
