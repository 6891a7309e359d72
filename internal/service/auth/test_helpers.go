package auth

import "time"

// NewTestJWTService builds a JWTService with an injectable clock and no
// clock skew allowance, for deterministic expiry tests.
func NewTestJWTService(secret string, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey: []byte(secret),
		timeFunc:   timeFunc,
		clockSkew:  0,
	}
}
