package usecase

import (
	"context"

	"healthtrack/internal/domain/entity"
)

// UpdateUserInput carries the account fields a user may change. Nil fields are left untouched
// by partial updates; a full update requires both.
type UpdateUserInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=1"`
}

// UserUsecase defines the account resource operations. A principal only sees itself.
type UserUsecase interface {
	ListUsers(ctx context.Context, principal *entity.Principal) ([]*entity.User, error)
	GetUser(ctx context.Context, principal *entity.Principal, userID uint64) (*entity.User, error)
	UpdateUser(ctx context.Context, principal *entity.Principal, userID uint64, input *UpdateUserInput, partial bool) (*entity.User, error)
	DeleteUser(ctx context.Context, principal *entity.Principal, userID uint64) error
}
