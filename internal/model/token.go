package model

import "github.com/google/uuid"

// AccessClaims is the decoded payload of an access token.
type AccessClaims struct {
	UserID   uuid.UUID
	Email    string
	Username string
}

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(user User) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (AccessClaims, error)
	ParseRefreshToken(token string) (uuid.UUID, error)
}

// PasswordHasher produces and verifies one-way salted password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
}
