package handler

import (
	"log/slog"
	"net/http"

	"healthtrack/internal/delivery/api/response"
	"healthtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler serves the account resource.
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

// List returns the principal's own account.
func (h *UserHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	users, err := h.userUC.ListUsers(c.Request().Context(), p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	result := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, newUserResponse(user))
	}

	return response.Success(c, http.StatusOK, result)
}

// Get returns the principal's account.
func (h *UserHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	userID, err := pathID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.GetUser(c.Request().Context(), p, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

// Update replaces (PUT) or patches (PATCH) the principal's email and password.
func (h *UserHandler) Update(partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := principal(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		userID, err := pathID(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		var input usecase.UpdateUserInput
		if err := bindJSON(c, &input); err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
		}

		if err := c.Validate(&input); err != nil {
			return response.HandleAppError(c, err)
		}

		user, err := h.userUC.UpdateUser(c.Request().Context(), p, userID, &input, partial)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, newUserResponse(user))
	}
}

// Delete removes the principal's account with everything it owns.
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	userID, err := pathID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.userUC.DeleteUser(c.Request().Context(), p, userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}
