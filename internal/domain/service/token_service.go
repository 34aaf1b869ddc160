package service

import (
	"time"

	"healthtrack/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// IssueTokenPair creates a new access token and refresh token for a given user.
	IssueTokenPair(user *entity.User) (*TokenPair, error)

	// IssueAccessToken creates a new access token for the identity of verified claims.
	IssueAccessToken(claims *Claims) (string, error)

	// Verify checks the signature, expiry and token type of a token string.
	Verify(tokenString string, expectedType string) (*Claims, error)

	// AccessTTL returns the configured lifetime of access tokens.
	AccessTTL() time.Duration

	// RefreshTTL returns the configured lifetime of refresh tokens.
	RefreshTTL() time.Duration
}
