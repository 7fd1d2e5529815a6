package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medleaf/pharmakit"
)

// TokenInfo is what the client can read out of its own JWT without the
// server's signing key: enough to know who the token claims to be and
// whether it is worth sending at all.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// InspectToken decodes the stored customer token without verifying its
// signature (verification is the server's job) and reports its subject and
// expiry. Callers use this to force a re-login instead of sending a token
// the server will reject anyway.
func (k *Keyring) InspectToken(ctx context.Context) (*TokenInfo, error) {
	raw, err := k.Token(ctx)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, pharmakit.ErrNoToken
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = time.Now().After(exp.Time)
	}
	return info, nil
}

// ValidToken returns the stored token if it exists and has not expired.
// Expired tokens are cleared and reported as ErrTokenExpired.
func (k *Keyring) ValidToken(ctx context.Context) (string, error) {
	info, err := k.InspectToken(ctx)
	if err != nil {
		return "", err
	}
	if info.Expired {
		_ = k.store.Delete(ctx, KeyToken)
		return "", pharmakit.ErrTokenExpired
	}
	return k.Token(ctx)
}
