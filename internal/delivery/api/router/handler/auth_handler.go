// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"healthtrack/internal/delivery/api/response"
	"healthtrack/internal/delivery/api/session"
	"healthtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC   usecase.AuthUsecase
	Sessions *session.Manager
	Logger   *slog.Logger
}

// AuthHandler serves registration and the cookie session endpoints.
type AuthHandler struct {
	authUC   usecase.AuthUsecase
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:   params.AuthUC,
		sessions: params.Sessions,
		logger:   params.Logger,
	}
}

// AuthStatusResponse is returned by the auth status check.
type AuthStatusResponse struct {
	Detail string `json:"detail"`
	User   string `json:"user"`
}

// UserInfoResponse is returned by the token introspection endpoint.
type UserInfoResponse struct {
	UserID  uint64 `json:"user_id"`
	Message string `json:"message"`
}

// Register handles account registration.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := bindJSON(c, &input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	if err := c.Validate(&input); err != nil {
		return response.HandleAppError(c, err)
	}

	if _, err := h.authUC.Register(c.Request().Context(), &input); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, http.StatusCreated, "User registered successfully!")
}

// Login checks the credentials and sets both session cookies.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := bindJSON(c, &input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&input); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.Login(c.Request().Context(), &input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	h.sessions.SetSessionCookies(c, output.Tokens.AccessToken, output.Tokens.RefreshToken)

	return response.Message(c, http.StatusOK, "Logged in successfully.")
}

// RefreshToken replaces the access cookie using the refresh cookie.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	if _, err := h.sessions.RefreshAccess(c, h.authUC); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, http.StatusOK, "Token refreshed successfully.")
}

// AuthStatus confirms the request is authenticated. It runs behind the auth middleware.
func (h *AuthHandler) AuthStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, AuthStatusResponse{Detail: "Authenticated", User: p.Email})
}

// UserInfo returns the user_id claim of the access cookie.
func (h *AuthHandler) UserInfo(c echo.Context) error {
	token, err := h.sessions.ExtractAccessToken(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	userID, err := h.authUC.UserInfo(c.Request().Context(), token)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, UserInfoResponse{
		UserID:  userID,
		Message: "Token is valid. User authenticated.",
	})
}

// Logout clears both session cookies. It needs no authentication.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.ClearSessionCookies(c)

	return response.Message(c, http.StatusOK, "Logged out successfully.")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
