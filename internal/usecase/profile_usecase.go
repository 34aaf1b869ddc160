package usecase

import (
	"context"
	"encoding/json"

	"healthtrack/internal/domain/entity"
)

// UpdateProfileInput carries the editable profile fields.
// Height is kept raw because clients send numbers, numeric strings, "" or null.
type UpdateProfileInput struct {
	Nickname *string        `json:"nickname" validate:"omitempty,max=100"`
	Height   json.RawMessage `json:"height"`
	Goal     *string        `json:"goal"`
}

// ProfileUsecase defines the profile resource operations. A principal only sees its own profile.
type ProfileUsecase interface {
	ListProfiles(ctx context.Context, principal *entity.Principal) ([]*entity.UserProfile, error)
	GetProfile(ctx context.Context, principal *entity.Principal, userID uint64) (*entity.UserProfile, error)
	UpdateProfile(ctx context.Context, principal *entity.Principal, userID uint64, input *UpdateProfileInput, partial bool) (*entity.UserProfile, error)
}
