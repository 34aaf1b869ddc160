// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"healthtrack/internal/domain/entity"
	"healthtrack/internal/domain/service"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// LoginOutput returns the issued tokens after a successful login.
type LoginOutput struct {
	Tokens *service.TokenPair
	User   *entity.User
}

// AuthUsecase defines the credential and session token operations.
type AuthUsecase interface {
	// Register creates the account and its empty profile.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)

	// Login checks the credentials and issues an access/refresh token pair.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Refresh verifies a refresh token and issues a new access token for the same identity.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Authenticate verifies an access token and resolves the principal of an existing user.
	Authenticate(ctx context.Context, accessToken string) (*entity.Principal, error)

	// UserInfo verifies an access token and returns the user_id claim without a database lookup.
	UserInfo(ctx context.Context, accessToken string) (uint64, error)
}
