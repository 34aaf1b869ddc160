package impl

import (
	"context"
	"log/slog"

	deliverycontext "healthtrack/internal/delivery/context"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	"healthtrack/internal/domain/service"
	"healthtrack/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager   repository.TransactionManager
	repoFactory repository.RepositoryFactory
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	RepoFactory repository.RepositoryFactory
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:   params.TxManager,
		repoFactory: params.RepoFactory,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns only the principal's account.
func (srv *userService) ListUsers(ctx context.Context, principal *entity.Principal) ([]*entity.User, error) {
	user, err := srv.GetUser(ctx, principal, principal.UserID)
	if err != nil {
		return nil, err
	}

	return []*entity.User{user}, nil
}

// GetUser retrieves the principal's account.
func (srv *userService) GetUser(ctx context.Context, principal *entity.Principal, userID uint64) (*entity.User, error) {
	if err := checkSelf(principal, userID); err != nil {
		return nil, err
	}

	user, err := srv.repoFactory.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err)
	}

	return user, nil
}

// UpdateUser changes the email and/or password of the principal's account. Passwords are re-hashed.
func (srv *userService) UpdateUser(
	ctx context.Context,
	principal *entity.Principal,
	userID uint64,
	input *usecase.UpdateUserInput,
	partial bool,
) (*entity.User, error) {
	if err := checkSelf(principal, userID); err != nil {
		return nil, err
	}
	if input == nil {
		input = &usecase.UpdateUserInput{}
	}

	if !partial {
		var missing []string
		if input.Email == nil {
			missing = append(missing, "email")
		}
		if input.Password == nil {
			missing = append(missing, "password")
		}
		if len(missing) > 0 {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(joinRequired(missing)))
		}
	}

	var passwordHash string
	if input.Password != nil {
		if err := srv.hasher.ValidatePasswordStrength(*input.Password); err != nil {
			return nil, errors.WithStack(err)
		}

		hashed, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		passwordHash = hashed
	}

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return mapUserError(err)
		}

		if input.Email != nil {
			user.Email = normalizeEmail(*input.Email)
		}
		if passwordHash != "" {
			user.PasswordHash = passwordHash
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return mapUserError(err)
		}
		updated = user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}

	srv.log(ctx).Info("User updated", slog.Uint64("userID", userID), slog.Bool("passwordChanged", passwordHash != ""))

	return updated, nil
}

// DeleteUser removes the principal's account with its profile and records.
func (srv *userService) DeleteUser(ctx context.Context, principal *entity.Principal, userID uint64) error {
	if err := checkSelf(principal, userID); err != nil {
		return err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return mapUserError(repoFactory.UserRepo().Delete(ctx, userID))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.Uint64("userID", userID))

	return nil
}

func mapUserError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(domainerrors.ErrUserNotFound, err.Error())
	}

	return errors.WithStack(err)
}
