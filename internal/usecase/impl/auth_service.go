// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "healthtrack/internal/delivery/context"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	"healthtrack/internal/domain/service"
	"healthtrack/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	repoFactory  repository.RepositoryFactory
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	RepoFactory  repository.RepositoryFactory
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		repoFactory:  params.RepoFactory,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the user and an empty profile in one transaction.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", email), slog.Any("error", err))

		return nil, errors.WithStack(err)
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Email:        email,
		PasswordHash: hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("user registration failed")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up email")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		if err := repoFactory.ProfileRepo().Create(ctx, &entity.UserProfile{UserID: newUser.ID}); err != nil {
			return errors.Wrap(err, "failed to create profile during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Uint64("userID", newUser.ID))

	return newUser, nil
}

// Login checks the password and issues a fresh token pair.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)

	user, err := srv.repoFactory.UserRepo().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Login for unknown email", slog.String("email", email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login with wrong password", slog.Uint64("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	tokens, err := srv.tokenService.IssueTokenPair(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue tokens")
	}

	srv.log(ctx).Debug("User logged in", slog.Uint64("userID", user.ID))

	return &usecase.LoginOutput{Tokens: tokens, User: user}, nil
}

// Refresh issues a new access token from a verified refresh token. The refresh token itself is not rotated.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errors.WithStack(domainerrors.ErrRefreshTokenNotFound)
	}

	claims, err := srv.tokenService.Verify(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		srv.log(ctx).Info("Refresh token rejected", slog.Any("error", err))

		return "", errors.Wrap(err, "invalid refresh token")
	}

	accessToken, err := srv.tokenService.IssueAccessToken(claims)
	if err != nil {
		return "", errors.Wrap(err, "failed to issue access token")
	}

	return accessToken, nil
}

// Authenticate resolves the principal behind an access token. Tokens of deleted users are rejected.
func (srv *authService) Authenticate(ctx context.Context, accessToken string) (*entity.Principal, error) {
	if accessToken == "" {
		return nil, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	claims, err := srv.tokenService.Verify(accessToken, service.TokenTypeAccess)
	if err != nil {
		return nil, errors.Wrap(err, "access token rejected")
	}
	if claims.UserID == 0 {
		return nil, errors.WithStack(domainerrors.ErrMissingUserID)
	}

	user, err := srv.repoFactory.UserRepo().FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "token user no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load token user")
	}

	return &entity.Principal{UserID: user.ID, Email: user.Email}, nil
}

// UserInfo returns the user_id claim of a valid access token.
func (srv *authService) UserInfo(_ context.Context, accessToken string) (uint64, error) {
	if accessToken == "" {
		return 0, errors.WithStack(domainerrors.ErrAccessTokenNotFound)
	}

	claims, err := srv.tokenService.Verify(accessToken, service.TokenTypeAccess)
	if err != nil {
		return 0, errors.Wrap(err, "access token rejected")
	}
	if claims.UserID == 0 {
		return 0, errors.WithStack(domainerrors.ErrMissingUserID)
	}

	return claims.UserID, nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	// The domain part is case-insensitive, the local part is kept as typed.
	return email[:at+1] + strings.ToLower(email[at+1:])
}
