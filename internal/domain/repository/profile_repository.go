package repository

import (
	"context"
	"errors"

	"healthtrack/internal/domain/entity"
)

// ErrProfileNotFound is returned when a user has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists UserProfile rows keyed by user ID.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*entity.UserProfile, error)
	Create(ctx context.Context, profile *entity.UserProfile) error
	Update(ctx context.Context, profile *entity.UserProfile) error
}
