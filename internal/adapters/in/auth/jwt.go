// Package auth issues and verifies the bearer tokens that carry an actor's
// user, tenant and role. Tokens are HS256 and must expire; never call
// jwt.Parse directly.
package auth

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrSecretIsTooShort = errors.New("token secret must be at least 32 bytes")
	ErrInvalidToken     = errors.New("invalid token")
)

const minSecretLength = 32

// ActorClaims holds the claims embedded in an access token. UserID shadows
// RegisteredClaims.Subject so "sub" serializes as a UUID.
type ActorClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID   `json:"sub"`
	TenantID uuid.UUID   `json:"tid"`
	Role     access.Role `json:"role"`
}

// Tokens signs and parses actor tokens with a shared secret.
type Tokens struct {
	secret []byte
	issuer string
}

func NewTokens(secret, issuer string) (Tokens, error) {
	if len(secret) < minSecretLength {
		return Tokens{}, ErrSecretIsTooShort
	}
	return Tokens{secret: []byte(secret), issuer: issuer}, nil
}

// Issue creates a signed token for actor valid for ttl.
func (t Tokens) Issue(actor access.Actor, ttl time.Duration) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := time.Now()
	claims := ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   actor.UserID().Bytes(),
		TenantID: actor.TenantID().Bytes(),
		Role:     actor.Role(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, algorithm, issuer and expiry, then rebuilds
// the actor. A token naming an unknown role is rejected.
func (t Tokens) Parse(token string) (access.Actor, error) {
	claims := &ActorClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(t.issuer),
	)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := kernel.UUIDFromGoogle(claims.UserID)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	tenantID, err := kernel.UUIDFromGoogle(claims.TenantID)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%w: tenant: %w", ErrInvalidToken, err)
	}

	actor, err := access.NewActor(userID, tenantID, claims.Role)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return actor, nil
}
