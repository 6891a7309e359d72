// Package auth provides authentication services: user registration and
// login, bearer token issuance and verification, and profile updates.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims holds the validated claims extracted from a bearer token.
type Claims struct {
	UserID    uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService defines the interface for signing and validating bearer
// tokens that embed a user id.
type JWTService interface {
	// GenerateToken creates a signed token for userID that expires after
	// lifetime. Different call sites use different lifetimes (7 days at
	// registration, 1 day at login).
	GenerateToken(ctx context.Context, userID uuid.UUID, lifetime time.Duration) (string, error)

	// ValidateToken validates a token and returns its claims.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}
