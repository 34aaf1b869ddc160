package handler

import (
	"log/slog"
	"net/http"

	"healthtrack/internal/delivery/api/response"
	"healthtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ProfileHandlerParams holds dependencies for ProfileHandler, injected by Fx.
type ProfileHandlerParams struct {
	fx.In

	ProfileUC usecase.ProfileUsecase
	Logger    *slog.Logger
}

// ProfileHandler serves the user profile resource. Profiles are addressed by user id.
type ProfileHandler struct {
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler.
func NewProfileHandler(params ProfileHandlerParams) *ProfileHandler {
	return &ProfileHandler{
		profileUC: params.ProfileUC,
		logger:    params.Logger,
	}
}

// List returns the principal's profile as a one element list.
func (h *ProfileHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	profiles, err := h.profileUC.ListProfiles(c.Request().Context(), p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	result := make([]*ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		result = append(result, newProfileResponse(profile))
	}

	return response.Success(c, http.StatusOK, result)
}

// Get returns the profile of the principal.
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	userID, err := pathID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	profile, err := h.profileUC.GetProfile(c.Request().Context(), p, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProfileResponse(profile))
}

// Update replaces (PUT) or patches (PATCH) the principal's profile.
func (h *ProfileHandler) Update(partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := principal(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		userID, err := pathID(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		var input usecase.UpdateProfileInput
		if err := bindJSON(c, &input); err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
		}

		if err := c.Validate(&input); err != nil {
			return response.HandleAppError(c, err)
		}

		profile, err := h.profileUC.UpdateProfile(c.Request().Context(), p, userID, &input, partial)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, newProfileResponse(profile))
	}
}
