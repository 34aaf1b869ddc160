// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"healthtrack/config"
	"healthtrack/internal/delivery/api/middleware"
	"healthtrack/internal/delivery/api/router/handler"
	"healthtrack/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler        *handler.AuthHandler
	DailyRecordHandler *handler.DailyRecordHandler
	RecordHandler      *handler.RecordHandler
	ProfileHandler     *handler.ProfileHandler
	UserHandler        *handler.UserHandler
	AuthMiddleware     *middleware.AuthMiddleware
	Config             *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler        *handler.AuthHandler
	dailyRecordHandler *handler.DailyRecordHandler
	recordHandler      *handler.RecordHandler
	profileHandler     *handler.ProfileHandler
	userHandler        *handler.UserHandler
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:        params.AuthHandler,
		dailyRecordHandler: params.DailyRecordHandler,
		recordHandler:      params.RecordHandler,
		profileHandler:     params.ProfileHandler,
		userHandler:        params.UserHandler,
		authMiddleware:     params.AuthMiddleware,
		config:             params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Paths are registered without a trailing slash; the server strips it before routing.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	base := e.Group(r.config.HTTP.BasePath)

	// Session routes
	base.POST("/register", r.authHandler.Register)
	base.POST("/token", r.authHandler.Login)
	base.POST("/token/refresh", r.authHandler.RefreshToken)
	base.POST("/logout", r.authHandler.Logout)
	base.GET("/userinfo", r.authHandler.UserInfo)

	base.POST("/auth/status", r.authHandler.AuthStatus, r.authMiddleware.Authenticate)
	base.POST("/daily-records", r.dailyRecordHandler.Upsert, r.authMiddleware.Authenticate)

	r.registerRecordRoutes(base, "/weight-records", entity.RecordKindWeight)
	r.registerRecordRoutes(base, "/sleep-records", entity.RecordKindSleep)
	r.registerRecordRoutes(base, "/calorie-records", entity.RecordKindCalorie)

	profiles := base.Group("/user-profiles", r.authMiddleware.Authenticate)
	{
		profiles.GET("", r.profileHandler.List)
		profiles.GET("/:id", r.profileHandler.Get)
		profiles.PUT("/:id", r.profileHandler.Update(false))
		profiles.PATCH("/:id", r.profileHandler.Update(true))
	}

	users := base.Group("/users", r.authMiddleware.Authenticate)
	{
		users.GET("", r.userHandler.List)
		users.GET("/:id", r.userHandler.Get)
		users.PUT("/:id", r.userHandler.Update(false))
		users.PATCH("/:id", r.userHandler.Update(true))
		users.DELETE("/:id", r.userHandler.Delete)
	}
}

func (r *router) registerRecordRoutes(parent *echo.Group, prefix string, kind entity.RecordKind) {
	g := parent.Group(prefix, r.authMiddleware.Authenticate)
	g.GET("", r.recordHandler.List(kind))
	g.POST("", r.recordHandler.Create(kind))
	g.GET("/:id", r.recordHandler.Get(kind))
	g.PUT("/:id", r.recordHandler.Update(kind, false))
	g.PATCH("/:id", r.recordHandler.Update(kind, true))
	g.DELETE("/:id", r.recordHandler.Delete(kind))
}
