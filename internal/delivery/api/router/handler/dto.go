package handler

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	deliverycontext "healthtrack/internal/delivery/context"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RecordResponse is the wire form of a record. Exactly one value field is set, matching the kind.
type RecordResponse struct {
	ID         uint64    `json:"id"`
	User       uint64    `json:"user"`
	RecordedAt string    `json:"recorded_at"`
	Weight     *float64  `json:"weight,omitempty"`
	SleepTime  *float64  `json:"sleep_time,omitempty"`
	Calorie    *float64  `json:"calorie,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DailyRecordResponse holds only the records written by the request.
type DailyRecordResponse struct {
	WeightRecord *RecordResponse `json:"weight_record,omitempty"`
	SleepRecord  *RecordResponse `json:"sleep_record,omitempty"`
}

// ProfileResponse is the wire form of a user profile.
type ProfileResponse struct {
	User      uint64    `json:"user"`
	Nickname  string    `json:"nickname"`
	Height    *float64  `json:"height"`
	Goal      string    `json:"goal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserResponse is the wire form of an account. The password hash is never exposed.
type UserResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newRecordResponse(record *entity.Record) *RecordResponse {
	if record == nil {
		return nil
	}

	value := record.Value
	resp := &RecordResponse{
		ID:         record.ID,
		User:       record.UserID,
		RecordedAt: record.RecordedAt.Format(entity.DateLayout),
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}

	switch record.Kind {
	case entity.RecordKindSleep:
		resp.SleepTime = &value
	case entity.RecordKindCalorie:
		resp.Calorie = &value
	default:
		resp.Weight = &value
	}

	return resp
}

func newRecordResponses(records []*entity.Record) []*RecordResponse {
	result := make([]*RecordResponse, 0, len(records))
	for _, record := range records {
		result = append(result, newRecordResponse(record))
	}

	return result
}

func newProfileResponse(profile *entity.UserProfile) *ProfileResponse {
	return &ProfileResponse{
		User:      profile.UserID,
		Nickname:  profile.Nickname,
		Height:    profile.Height,
		Goal:      profile.Goal,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func newUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// principal returns the identity set by the auth middleware.
func principal(c echo.Context) (*entity.Principal, error) {
	p, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	return p, nil
}

// pathID parses the :id route parameter. Non-numeric ids are reported as missing resources.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.WithStack(domainerrors.ErrNotFound.WithDetails("invalid id " + strconv.Quote(c.Param("id"))))
	}

	return id, nil
}

// parseUserField reads an optional "user" field given as a number or numeric string.
func parseUserField(raw json.RawMessage) (*uint64, error) {
	var number json.Number
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &number); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("user: must be a user id"))
		}
		number = json.Number(text)
	}

	id, err := strconv.ParseUint(number.String(), 10, 64)
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("user: must be a user id"))
	}

	return &id, nil
}

// bindJSON binds a JSON request body into target and rejects a body sent in any other encoding.
func bindJSON(c echo.Context, target any) error {
	req := c.Request()
	if req.ContentLength != 0 && !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("request body must be JSON"))
	}

	return errors.WithStack(c.Bind(target))
}
