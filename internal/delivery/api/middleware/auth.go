package middleware

import (
	"log/slog"
	"net/http"

	"healthtrack/internal/delivery/api/response"
	"healthtrack/internal/delivery/api/session"
	deliverycontext "healthtrack/internal/delivery/context"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	AuthUC   usecase.AuthUsecase
	Sessions *session.Manager
	Logger   *slog.Logger
}

// AuthMiddleware guards routes that need an authenticated principal.
type AuthMiddleware struct {
	authUC   usecase.AuthUsecase
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		authUC:   params.AuthUC,
		sessions: params.Sessions,
		logger:   params.Logger,
	}
}

// Authenticate resolves the principal from the access_token cookie, falling back to a
// Bearer header. Requests without a valid token are answered with 401 and never reach next.
// Failures that are not about the token, such as a broken user lookup, go to the error handler.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := m.sessions.ExtractAccessToken(c)
		if err != nil {
			bearer, ok := m.sessions.ExtractBearerToken(c)
			if !ok {
				return unauthorized(c, domainerrors.ErrUnauthenticated)
			}
			token = bearer
		}

		ctx := c.Request().Context()
		principal, err := m.authUC.Authenticate(ctx, token)
		if err != nil {
			var appErr domainerrors.AppError
			if !errors.As(err, &appErr) || appErr.HTTPCode() != http.StatusUnauthorized {
				return errors.WithStack(err)
			}

			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Debug("Authentication failed", slog.Any("error", err))

			return unauthorized(c, appErr)
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}

// unauthorized renders a 401 carrying the code of the token error.
func unauthorized(c echo.Context, appErr domainerrors.AppError) error {
	return response.Unauthorized(c, appErr.ErrorCode(), appErr.Message())
}
