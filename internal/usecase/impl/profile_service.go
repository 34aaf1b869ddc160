package impl

import (
	"context"
	"log/slog"

	deliverycontext "healthtrack/internal/delivery/context"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	"healthtrack/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager   repository.TransactionManager
	repoFactory repository.RepositoryFactory
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	RepoFactory repository.RepositoryFactory
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:   params.TxManager,
		repoFactory: params.RepoFactory,
		logger:      params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProfiles returns the principal's own profile as a one element list.
func (srv *profileService) ListProfiles(ctx context.Context, principal *entity.Principal) ([]*entity.UserProfile, error) {
	profile, err := srv.repoFactory.ProfileRepo().FindByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return []*entity.UserProfile{}, nil
		}

		return nil, errors.Wrap(err, "failed to list profiles")
	}

	return []*entity.UserProfile{profile}, nil
}

// GetProfile retrieves the profile of the principal.
func (srv *profileService) GetProfile(ctx context.Context, principal *entity.Principal, userID uint64) (*entity.UserProfile, error) {
	if err := checkSelf(principal, userID); err != nil {
		return nil, err
	}

	profile, err := srv.repoFactory.ProfileRepo().FindByUserID(ctx, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}

	return profile, nil
}

// UpdateProfile replaces (partial=false) or patches (partial=true) the principal's profile.
// A full update resets omitted fields to empty values.
func (srv *profileService) UpdateProfile(
	ctx context.Context,
	principal *entity.Principal,
	userID uint64,
	input *usecase.UpdateProfileInput,
	partial bool,
) (*entity.UserProfile, error) {
	if err := checkSelf(principal, userID); err != nil {
		return nil, err
	}
	if input == nil {
		input = &usecase.UpdateProfileInput{}
	}

	srv.log(ctx).Info("Updating user profile", slog.Uint64("userID", userID))

	var updated *entity.UserProfile
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		profile, err := profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			return mapProfileError(err)
		}

		if err := applyProfileInput(profile, input, partial); err != nil {
			return err
		}

		if err := profileRepo.Update(ctx, profile); err != nil {
			return mapProfileError(err)
		}
		updated = profile

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user profile")
	}

	return updated, nil
}

func applyProfileInput(profile *entity.UserProfile, input *usecase.UpdateProfileInput, partial bool) error {
	switch {
	case input.Nickname != nil:
		profile.Nickname = *input.Nickname
	case !partial:
		profile.Nickname = ""
	}

	switch {
	case input.Goal != nil:
		profile.Goal = *input.Goal
	case !partial:
		profile.Goal = ""
	}

	switch {
	case usecase.IsAbsent(input.Height) && input.Height != nil:
		// explicit null clears the height
		profile.Height = nil
	case usecase.IsEmptyString(input.Height):
		profile.Height = nil
	case !usecase.IsAbsent(input.Height):
		height, err := usecase.ParseNumber(input.Height)
		if err != nil || height <= 0 {
			return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("height must be a positive number"))
		}
		profile.Height = &height
	case !partial:
		profile.Height = nil
	}

	return nil
}

func mapProfileError(err error) error {
	if errors.Is(err, repository.ErrProfileNotFound) {
		return errors.Wrap(domainerrors.ErrProfileNotFound, err.Error())
	}

	return errors.WithStack(err)
}
